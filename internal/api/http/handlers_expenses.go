package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/wanderlist/internal/service"
)

type recordExpenseRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

func (h *Handler) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}
	var req recordExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := h.svc.RecordExpense(r.Context(), userID, service.RecordExpenseInput{
		TripID:      chi.URLParam(r, "tripID"),
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newExpenseView(expense))
}

func (h *Handler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := principal(r)

	expenses, err := h.svc.ListExpenses(r.Context(), userID, chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, newExpenseView(e))
	}
	writeJSON(w, http.StatusOK, map[string][]expenseView{"expenses": views})
}
