package main

import (
	"errors"
	"net/http"

	"github.com/farxc/vendas_sync/internal/response"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/go-chi/chi/v5"
)

type GetSyncRunsResponse = response.APIResponse[[]store.SyncJobLog]

// @Summary		Get sync runs
// @Description	Get the latest run log entries, newest first. Filter by job with repeated job parameters.
// @Tags			Sync
// @Produce		json
// @Param			limit	query		int					false	"Limit the number of results"	default(20)
// @Param			job		query		[]string			false	"Job names, e.g. SYNC_ALL"
// @Success		200		{object}	GetSyncRunsResponse	"Successfully retrieved run log entries"
// @Failure		400		{object}	response.ErrorResponse
// @Failure		500		{object}	response.ErrorResponse	"Failed to get run log"
// @Router			/sync/runs [get]
func (app *application) handleGetSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 20)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := app.store.SyncLog.GetLatestRuns(r.Context(), r.URL.Query()["job"], limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get run log: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "Successfully retrieved run log entries")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get one sync batch
// @Description	Get the envelope and task entries of one batch.
// @Tags			Sync
// @Produce		json
// @Param			batchID	path		string				true	"Batch identifier"
// @Success		200		{object}	GetSyncRunsResponse
// @Failure		404		{object}	response.ErrorResponse	"Batch not found"
// @Failure		500		{object}	response.ErrorResponse
// @Router			/sync/runs/{batchID} [get]
func (app *application) handleGetSyncBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")

	data, err := app.store.SyncLog.GetBatch(r.Context(), batchID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "batch not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get batch: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, response.List(data, "")); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
