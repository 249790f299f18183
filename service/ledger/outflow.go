package ledger

import "github.com/shopspring/decimal"

// OutflowSummary is the itemized outgoing view plus its exact total.
type OutflowSummary struct {
	Outflows    []Transaction   `json:"outflows"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SummarizeOutflows totals the outgoing view. The sum is decimal
// arithmetic, so it is exact at the currency's native precision
// regardless of how many records accumulate.
func SummarizeOutflows(outgoing []Transaction) OutflowSummary {
	total := decimal.Zero
	for _, t := range outgoing {
		total = total.Add(t.Amount)
	}
	if outgoing == nil {
		outgoing = []Transaction{}
	}
	return OutflowSummary{
		Outflows:    outgoing,
		TotalAmount: total,
	}
}
