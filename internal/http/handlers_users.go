package http

import (
	"net/http"

	"facilitae/internal/core"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	created, err := s.users.Create(r.Context(), u)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var u core.User
	if err := decodeJSON(r, &u); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	updated, err := s.users.Update(r.Context(), r.PathValue("id"), u)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Usuário removido com sucesso"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePagination(r, s.defaultPageSize, s.maxPageSize)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := s.users.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := s.users.SearchByName(r.Context(), query)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleListUserGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.users.Groups(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleListUserExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.users.Expenses(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleSelfDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SelfDelete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Conta excluída com sucesso"})
}
