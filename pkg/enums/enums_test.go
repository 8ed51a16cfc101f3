package enums

import (
	"encoding/json"
	"testing"
)

func TestPaymentMethodClosedSet(t *testing.T) {
	methods := PaymentMethods()
	if len(methods) != 4 {
		t.Fatalf("expected 4 payment methods, got %d", len(methods))
	}
	for _, m := range methods {
		if !m.IsValid() {
			t.Fatalf("%s should be valid", m)
		}
		if m.Label() == string(m) {
			t.Fatalf("%s missing label", m)
		}
	}
	if _, err := ParsePaymentMethod("PAYPAL"); err == nil {
		t.Fatal("expected unknown payment method to be rejected")
	}
	if got, err := ParsePaymentMethod("VIRTUAL_ACCOUNT"); err != nil || got != PaymentMethodVirtualAccount {
		t.Fatalf("unexpected parse result %q %v", got, err)
	}
}

func TestOrderStatusCancellable(t *testing.T) {
	cases := map[OrderStatus]bool{
		OrderStatusPending:   true,
		OrderStatusPaid:      true,
		OrderStatusShipped:   false,
		OrderStatusDelivered: false,
		OrderStatusCancelled: false,
	}
	for status, want := range cases {
		if got := status.Cancellable(); got != want {
			t.Fatalf("%s: expected cancellable=%v", status, want)
		}
	}
}

func TestOrderStatusDecodeRejectsUnknown(t *testing.T) {
	var payload struct {
		Status OrderStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"SHIPPED"}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Status.Label() != "배송 중" {
		t.Fatalf("unexpected label %q", payload.Status.Label())
	}
	if err := json.Unmarshal([]byte(`{"status":"RETURNED"}`), &payload); err == nil {
		t.Fatal("expected unknown status to fail decoding")
	}
}
