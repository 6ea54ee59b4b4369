package handler

import (
	"net/http"

	"github.com/isacLima251/MeuPainel0.2/internal/domain"
	"github.com/isacLima251/MeuPainel0.2/internal/usecases/expensing"
	"github.com/julienschmidt/httprouter"
)

func CreateExpense(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		var req domain.CreateExpenseRequest
		if !decodeBody(w, r, &req) {
			return
		}

		expense, err := service.CreateExpense(r.Context(), claims.TenantID, &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar despesa")
			return
		}

		writeJSON(w, r, http.StatusCreated, expense)
	})
}

func ListExpenses(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		window, ok := windowFromQuery(w, r)
		if !ok {
			return
		}

		expenses, err := service.ListExpenses(r.Context(), claims.TenantID, window)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar despesas")
			return
		}

		writeJSON(w, r, http.StatusOK, expenses)
	})
}

func DeleteExpense(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if err := service.DeleteExpense(r.Context(), claims.TenantID, id); err != nil {
			writeServiceError(w, r, err, "Erro ao remover despesa")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func CreateCreativeSpend(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		var req domain.CreateCreativeSpendRequest
		if !decodeBody(w, r, &req) {
			return
		}

		spend, err := service.CreateCreativeSpend(r.Context(), claims.TenantID, &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao registrar investimento")
			return
		}

		writeJSON(w, r, http.StatusCreated, spend)
	})
}

func ListCreativeSpends(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		window, ok := windowFromQuery(w, r)
		if !ok {
			return
		}

		spends, err := service.ListCreativeSpends(r.Context(), claims.TenantID, window)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar investimentos")
			return
		}

		writeJSON(w, r, http.StatusOK, spends)
	})
}

func DeleteCreativeSpend(service expensing.Ledger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsOf(w, r)
		if !ok {
			return
		}

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if err := service.DeleteCreativeSpend(r.Context(), claims.TenantID, id); err != nil {
			writeServiceError(w, r, err, "Erro ao remover investimento")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
