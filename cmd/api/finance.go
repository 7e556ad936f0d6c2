package main

import (
	"net/http"

	"github.com/farxc/vendas_sync/internal/response"
	"github.com/farxc/vendas_sync/internal/store"
)

type GetExpensesResponse = response.APIResponse[[]store.Expense]
type GetCashMovementsResponse = response.APIResponse[[]store.CashMovement]

// @Summary		Get expenses
// @Tags			Finance
// @Produce		json
// @Param			since	query		string				false	"YYYY-MM-DD or RFC3339, defaults to 30 days ago"
// @Success		200		{object}	GetExpensesResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		500		{object}	response.ErrorResponse
// @Router			/expenses [get]
func (app *application) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r, 30)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := app.store.Expenses.GetExpenses(r.Context(), since)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get expenses: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get cash movements
// @Description	Get shift inflows and outflows moved since a date.
// @Tags			Finance
// @Produce		json
// @Param			since	query		string					false	"YYYY-MM-DD or RFC3339, defaults to 30 days ago"
// @Success		200		{object}	GetCashMovementsResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		500		{object}	response.ErrorResponse
// @Router			/cash-movements [get]
func (app *application) handleGetCashMovements(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r, 30)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := app.store.CashMovements.GetCashMovements(r.Context(), since)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get cash movements: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
