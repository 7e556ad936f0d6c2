package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/farxc/vendas_sync/internal/response"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/go-chi/chi/v5"
)

type GetOrdersResponse = response.APIResponse[[]store.Order]
type GetOrderResponse = response.APIResponse[*store.Order]

// @Summary		Get orders
// @Description	Get orders opened since a date, optionally by status.
// @Tags			Orders
// @Produce		json
// @Param			status	query		string				false	"OPEN or CLOSED"
// @Param			since	query		string				false	"YYYY-MM-DD or RFC3339, defaults to 7 days ago"
// @Param			limit	query		int					false	"Limit the number of results"	default(100)
// @Success		200		{object}	GetOrdersResponse
// @Failure		400		{object}	response.ErrorResponse
// @Failure		500		{object}	response.ErrorResponse
// @Router			/orders [get]
func (app *application) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r, 7)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r, 100)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := store.OrderFilter{Since: &since, Limit: limit}
	if status := strings.ToUpper(r.URL.Query().Get("status")); status != "" {
		switch store.Status(status) {
		case store.StatusOpen, store.StatusClosed:
			filter.Status = store.Status(status)
		default:
			writeJSONError(w, http.StatusBadRequest, "invalid status: use OPEN or CLOSED")
			return
		}
	}

	data, err := app.store.Orders.GetOrders(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get orders: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get one order
// @Description	Get an order with its items.
// @Tags			Orders
// @Produce		json
// @Param			orderID	path		string				true	"Order identifier"
// @Success		200		{object}	GetOrderResponse
// @Failure		404		{object}	response.ErrorResponse	"Order not found"
// @Failure		500		{object}	response.ErrorResponse
// @Router			/orders/{orderID} [get]
func (app *application) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := app.store.Orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get order: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.Item(order, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
