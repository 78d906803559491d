package http

import (
	"fmt"
	"net/http"

	"focolare/internal/core"
	"focolare/internal/services"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cents, err := req.amountCents()
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := &core.Transaction{
		GroupID:       r.PathValue("id"),
		Date:          date,
		Amount:        core.Money{Cents: cents},
		Payee:         req.Payee,
		CategoryID:    req.CategoryID,
		AssetType:     core.AssetType(req.AssetType),
		AssetSourceID: req.AssetSourceID,
		Memo:          req.Memo,
	}
	created, err := s.services.Transactions.Create(r.Context(), userIDFrom(r.Context()), tx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := core.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: start query parameter required", core.ErrInvalidInput))
		return
	}
	end, err := core.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: end query parameter required", core.ErrInvalidInput))
		return
	}

	txs, err := s.services.Transactions.ListByDateRange(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transactionResponse, len(txs))
	for i := range txs {
		out[i] = toTransactionResponse(&txs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.services.Transactions.FindByID(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	cents, err := req.amountCents()
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	update := services.TransactionUpdate{
		Date:          date,
		Amount:        core.Money{Cents: cents},
		Payee:         req.Payee,
		CategoryID:    req.CategoryID,
		AssetType:     core.AssetType(req.AssetType),
		AssetSourceID: req.AssetSourceID,
		Memo:          req.Memo,
	}
	updated, err := s.services.Transactions.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Transactions.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
