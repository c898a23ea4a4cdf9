package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"traderpro/pkg/traderpro"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) aiAnalysis(w http.ResponseWriter, r *http.Request) {
	var req traderpro.AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.core.Analyze(r.Context(), req)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.core.GetAccounts(userIDFrom(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var payload traderpro.AccountCreate
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.core.CreateAccount(userIDFrom(r), payload)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handler) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.core.GetAccount(userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var payload traderpro.AccountCreate
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.core.UpdateAccount(userIDFrom(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.core.DeleteAccount(userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := traderpro.TransactionFilter{
		AccountID: query.Get("account_id"),
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
	}
	transactions, err := h.core.GetTransactions(userIDFrom(r), filter)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var payload traderpro.TransactionCreate
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	record, err := h.core.CreateTransaction(userIDFrom(r), payload)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.core.DeleteTransaction(userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.core.GetCategories()
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload traderpro.CategoryCreate
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := h.core.CreateCategory(payload)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *handler) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.core.GetDashboardStats(userIDFrom(r))
	if err != nil {
		writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}
