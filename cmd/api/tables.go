package main

import (
	"net/http"

	"github.com/farxc/vendas_sync/internal/response"
	"github.com/farxc/vendas_sync/internal/store"
)

type GetTablesResponse = response.APIResponse[[]store.TableStatus]

// @Summary		Get table status
// @Description	Get every table as of the last sync.
// @Tags			Tables
// @Produce		json
// @Success		200	{object}	GetTablesResponse
// @Failure		500	{object}	response.ErrorResponse
// @Router			/tables [get]
func (app *application) handleGetTables(w http.ResponseWriter, r *http.Request) {
	data, err := app.store.TableStatus.GetTableStatuses(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get tables: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
