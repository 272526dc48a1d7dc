package handler

import "time"

type expenseRequest struct {
	Concept    string   `json:"concept"    validate:"required"`
	Amount     float64  `json:"amount"     validate:"required,gt=0"`
	PaidBy     string   `json:"paidBy"     validate:"required"`
	SplitAmong []string `json:"splitAmong" validate:"required,min=1,dive,required"`
}

type expenseResponse struct {
	ID              string    `json:"id"`
	Concept         string    `json:"concept"`
	Amount          float64   `json:"amount"`
	PaidBy          string    `json:"paidBy"`
	SplitAmong      []string  `json:"splitAmong"`
	AmountPerPerson float64   `json:"amountPerPerson"`
	CreatedAt       time.Time `json:"createdAt"`
}

type listExpensesResponse struct {
	Data  []expenseResponse `json:"data"`
	Total float64           `json:"total"`
}
