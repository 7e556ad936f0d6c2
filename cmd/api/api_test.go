package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	app := &application{
		store:     *store.NewStorage(sqlx.NewDb(mockDB, "postgres")),
		appLogger: logger.New(logger.Options{Output: io.Discard}),
	}
	return app.mount(), mock
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "available")
}

func TestGetSyncRuns(t *testing.T) {
	h, mock := newTestApp(t)
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sync_job_log WHERE job_name = ANY($1)")).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "batch_id", "job_name", "status", "message", "started_at", "finished_at"}).
			AddRow(1, "b-1", store.JobSyncAll, store.JobStatusOK, "Fim da sincronização", at, at))

	rec := get(t, h, "/v1/sync/runs?limit=5&job=SYNC_ALL")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.True(t, body.Success)
	require.NotNil(t, body.Count)
	assert.Equal(t, 1, *body.Count)

	var runs []store.SyncJobLog
	require.NoError(t, json.Unmarshal(body.Data, &runs))
	assert.Equal(t, "b-1", runs[0].BatchID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSyncRuns_InvalidLimit(t *testing.T) {
	h, _ := newTestApp(t)

	rec := get(t, h, "/v1/sync/runs?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "invalid limit")
}

func TestGetSyncBatch_NotFound(t *testing.T) {
	h, mock := newTestApp(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE batch_id = $1")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := get(t, h, "/v1/sync/runs/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTables(t *testing.T) {
	h, mock := newTestApp(t)
	at := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tables_status ORDER BY table_id")).
		WillReturnRows(sqlmock.NewRows([]string{"table_id", "table_name", "status", "current_total", "orders_count", "updated_at"}).
			AddRow("T1", "T1", "OPEN", "35.00", 1, at))

	rec := get(t, h, "/v1/tables")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tables []store.TableStatus
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, store.StatusOpen, tables[0].Status)
	assert.Equal(t, "35", tables[0].CurrentTotal.String())
}

func TestGetOrders_StatusFilter(t *testing.T) {
	h, mock := newTestApp(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE status = $1 AND opened_at >= $2")).
		WithArgs("OPEN", since, 100).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "status", "opened_at", "total"}))

	rec := get(t, h, "/v1/orders?status=open&since=2026-03-01T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.NotNil(t, body.Count)
	assert.Zero(t, *body.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrders_BadInput(t *testing.T) {
	h, _ := newTestApp(t)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/orders?status=PAID").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/v1/orders?since=14/03/2026").Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	h, mock := newTestApp(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE order_id = $1")).
		WithArgs("404").
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	rec := get(t, h, "/v1/orders/404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order not found", decode(t, rec).Error)
}

func TestGetCashMovements(t *testing.T) {
	h, mock := newTestApp(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	moved := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cash_movements WHERE moved_at >= $1")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"movement_id", "movement_type", "reason", "amount", "moved_at", "updated_at"}).
			AddRow("MCX-7-IN", "IN", "Total pago (turno)", "100", moved, moved).
			AddRow("MCX-7-OUT", "OUT", "Despesa caixa (turno)", "40", moved, moved))

	rec := get(t, h, "/v1/cash-movements?since=2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, *decode(t, rec).Count)
}

func TestGetExpenses_StoreError(t *testing.T) {
	h, mock := newTestApp(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM expenses")).WillReturnError(assert.AnError)

	rec := get(t, h, "/v1/expenses")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec).Error, "failed to get expenses")
}
