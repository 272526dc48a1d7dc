package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripsplit/expenses-system/internal/api/metrics"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for a project's expense sub-collection.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List handles GET /v1/projects/:id/expenses.
//
// @Summary      List a project's expenses with the running total
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  listExpensesResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListExpenses(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}

	data := make([]expenseResponse, 0, len(result.Expenses))
	for _, e := range result.Expenses {
		data = append(data, toExpenseResponse(e))
	}
	return c.JSON(http.StatusOK, listExpensesResponse{Data: data, Total: result.Total})
}

// Create handles POST /v1/projects/:id/expenses. An optional Idempotency-Key
// header makes the create replay-safe: a repeated key returns the expense
// created the first time, with status 200 instead of 201.
//
// @Summary      Record an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string          true   "Project id"
// @Param        Idempotency-Key  header    string          false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      expenseRequest  true   "Expense details"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id}/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.AddExpense(c.Request().Context(), ports.ExpenseInput{
		Session:        session,
		ProjectID:      c.Param("id"),
		Concept:        req.Concept,
		Amount:         req.Amount,
		PaidBy:         req.PaidBy,
		SplitAmong:     req.SplitAmong,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	} else {
		metrics.ExpensesRecordedTotal.WithLabelValues("create").Inc()
	}
	return c.JSON(status, toExpenseResponse(result.Expense))
}

// Update handles PUT /v1/projects/:id/expenses/:expenseId. The per-person
// share is recomputed from the new amount and split set.
//
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string          true  "Project id"
// @Param        expenseId  path      string          true  "Expense id"
// @Param        body       body      expenseRequest  true  "Expense details"
// @Success      200   {object}  expenseResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/projects/{id}/expenses/{expenseId} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req expenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.UpdateExpense(c.Request().Context(), ports.ExpenseInput{
		Session:    session,
		ProjectID:  c.Param("id"),
		ExpenseID:  c.Param("expenseId"),
		Concept:    req.Concept,
		Amount:     req.Amount,
		PaidBy:     req.PaidBy,
		SplitAmong: req.SplitAmong,
	})
	if err != nil {
		return err
	}

	metrics.ExpensesRecordedTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toExpenseResponse(result.Expense))
}

// Delete handles DELETE /v1/projects/:id/expenses/:expenseId.
//
// @Summary      Delete an expense
// @Tags         expenses
// @Security     BearerAuth
// @Param        id         path  string  true  "Project id"
// @Param        expenseId  path  string  true  "Expense id"
// @Success      204  "deleted"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/projects/{id}/expenses/{expenseId} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteExpense(c.Request().Context(), session, c.Param("id"), c.Param("expenseId")); err != nil {
		return err
	}

	metrics.ExpensesRecordedTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
