package domain

import "time"

// Expense is a monetary amount attributed to a payer and divided equally
// among the participants named in SplitAmong. PaidBy and SplitAmong hold
// participant names, not ids; removing or renaming a participant never
// rewrites stored expenses.
type Expense struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	ProjectID       string    `json:"-" bson:"projectId"`
	Concept         string    `json:"concept" bson:"concept"`
	Amount          float64   `json:"amount" bson:"amount"`
	PaidBy          string    `json:"paidBy" bson:"paidBy"`
	SplitAmong      []string  `json:"splitAmong" bson:"splitAmong"`
	AmountPerPerson float64   `json:"amountPerPerson" bson:"amountPerPerson"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// ComputeShare returns the equal per-person share of amount divided among
// amongCount participants. The result is not rounded; formatting to two
// decimals is a presentation concern. Callers must reject amongCount < 1
// before invoking.
func ComputeShare(amount float64, amongCount int) float64 {
	return amount / float64(amongCount)
}

// TotalExpenses sums the amounts of all expenses; 0 for an empty slice.
func TotalExpenses(expenses []*Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
