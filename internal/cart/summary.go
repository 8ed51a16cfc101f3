package cart

import (
	"fmt"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

type WarningKind string

const (
	WarningInsufficientStock WarningKind = "INSUFFICIENT_STOCK"
	WarningPriceChanged      WarningKind = "PRICE_CHANGED"
)

// Warning flags a line the server may refuse or reprice at checkout.
type Warning struct {
	LineID  int64       `json:"lineId"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

type LineView struct {
	Line
	LineTotal types.Money `json:"lineTotal"`
}

// Summary is the cart as rendered: every line, the selected subtotal and warnings.
type Summary struct {
	Lines         []LineView  `json:"lines"`
	Subtotal      types.Money `json:"subtotal"`
	SelectedCount int         `json:"selectedCount"`
	AllSelected   bool        `json:"allSelected"`
	Warnings      []Warning   `json:"warnings,omitempty"`
}

func (s *State) Summary() Summary {
	summary := Summary{
		Lines:       make([]LineView, 0, len(s.lines)),
		Subtotal:    s.SelectedSubtotal(),
		AllSelected: len(s.lines) > 0,
	}
	for _, line := range s.lines {
		summary.Lines = append(summary.Lines, LineView{Line: line, LineTotal: line.Total()})
		if line.Selected {
			summary.SelectedCount++
		} else {
			summary.AllSelected = false
		}
		summary.Warnings = append(summary.Warnings, lineWarnings(line)...)
	}
	return summary
}

func lineWarnings(line Line) []Warning {
	var out []Warning
	if line.Quantity > line.Stock {
		out = append(out, Warning{
			LineID:  line.ID,
			Kind:    WarningInsufficientStock,
			Message: fmt.Sprintf("%s: only %d left in stock", line.Title, line.Stock),
		})
	}
	if line.PriceChanged {
		out = append(out, Warning{
			LineID:  line.ID,
			Kind:    WarningPriceChanged,
			Message: fmt.Sprintf("%s: price changed to %s", line.Title, line.UnitPrice),
		})
	}
	return out
}
