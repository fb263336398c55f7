// Package transport exposes HTTP handlers.
package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/query"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TransactionResponse is the JSON form of a record.
type TransactionResponse struct {
	model.FlatRecord
	TxID             string `json:"txid"`
	Coinbase         bool   `json:"coinbase"`
	UnresolvedInputs uint32 `json:"unresolved_inputs"`
}

// HealthResponse reports server health.
type HealthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// LedgerHandler serves transaction lookups over HTTP.
type LedgerHandler struct {
	querier Querier
	logger  *zap.Logger
}

// NewLedgerHandler returns a LedgerHandler instance.
func NewLedgerHandler(querier Querier, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{querier: querier, logger: logger}
}

// Register adds the ledger routes to mux.
func (h *LedgerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/transactions/{index}", h.TransactionByIndex)
	mux.HandleFunc("GET /v1/transactions", h.TransactionsByTimestamp)
	mux.HandleFunc("GET /health", h.Health)
}

// TransactionByIndex serves GET /v1/transactions/{index}.
func (h *LedgerHandler) TransactionByIndex(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("index")
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid index "+strconv.Quote(raw))
		return
	}

	record, err := h.querier.ByIndex(r.Context(), index)
	switch {
	case errors.Is(err, query.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "transaction not found")
		return
	case err != nil:
		h.logger.Error("transaction by index", zap.Uint64("index", index), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionResponse(record))
}

// TransactionsByTimestamp serves GET /v1/transactions?start=...&end=... . Without end, only
// records at exactly start are returned.
func (h *LedgerHandler) TransactionsByTimestamp(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("start") {
		h.writeError(w, http.StatusBadRequest, "start is required")
		return
	}

	var end *string
	if params.Has("end") {
		v := params.Get("end")
		end = &v
	}

	records, err := h.querier.ByTimestamp(r.Context(), params.Get("start"), end)
	switch {
	case errors.Is(err, query.ErrInvalidTimestamp):
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("transactions by timestamp", zap.String("start", params.Get("start")), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]TransactionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, newTransactionResponse(record))
	}
	h.writeJSON(w, http.StatusOK, out)
}

// Health reports server health.
func (h *LedgerHandler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func newTransactionResponse(r model.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		FlatRecord:       r.Flat(),
		TxID:             r.TxID,
		Coinbase:         r.Coinbase,
		UnresolvedInputs: r.UnresolvedInputs,
	}
}

func (h *LedgerHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *LedgerHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}
