package http

import (
	"net/http"

	"facilitae/internal/core"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	created, err := s.expenses.Create(r.Context(), e)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	updated, err := s.expenses.Update(r.Context(), r.PathValue("id"), e)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Despesa removida com sucesso"})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r, s.defaultPageSize, s.maxPageSize)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.expenses.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleListExpensesByGroup(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ByGroup(r.Context(), r.PathValue("grupo_id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleListExpensesByUser(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ByUser(r.Context(), r.PathValue("usuario_id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}
