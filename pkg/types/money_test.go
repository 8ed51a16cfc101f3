package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshalAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
		C Money `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":5000,"b":"12500","c":2999.5}`), &payload))

	assert.Equal(t, Money(5000), payload.A)
	assert.Equal(t, Money(12500), payload.B)
	assert.Equal(t, Money(3000), payload.C)
}

func TestMoneyUnmarshalRejectsGarbage(t *testing.T) {
	var m Money
	assert.Error(t, json.Unmarshal([]byte(`"free"`), &m))
}

func TestMoneyMarshalIsIntegral(t *testing.T) {
	raw, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: 28000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":28000}`, string(raw))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "28,000원", Money(28000).String())
	assert.Equal(t, "0원", Money(0).String())
	assert.Equal(t, "1,234,567원", Money(1234567).String())
	assert.Equal(t, "-3,000원", Money(-3000).String())
	assert.Equal(t, Money(0), Money(-5).NonNegative())
}
