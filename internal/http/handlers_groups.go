package http

import (
	"net/http"

	"facilitae/internal/core"
)

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var g core.Group
	if err := decodeJSON(r, &g); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	created, err := s.groups.Create(r.Context(), g)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	g, err := s.groups.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var g core.Group
	if err := decodeJSON(r, &g); err != nil {
		respondError(w, r, s.logger, err)
		return
	}

	updated, err := s.groups.Update(r.Context(), r.PathValue("id"), g)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Grupo removido com sucesso"})
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context())
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleListGroupsSorted(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.ListSorted(r.Context())
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleSearchGroups(w http.ResponseWriter, r *http.Request) {
	query, err := searchQuery(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := s.groups.SearchByName(r.Context(), query)
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if groups == nil {
		groups = []core.Group{}
	}
	respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleAddGroupUser(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.AddUser(r.Context(), r.PathValue("id"), r.PathValue("usuario_id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Usuário adicionado ao grupo"})
}

func (s *Server) handleRemoveGroupUser(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.RemoveUser(r.Context(), r.PathValue("id"), r.PathValue("usuario_id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Usuário removido do grupo"})
}

func (s *Server) handleAddGroupExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.AddExpense(r.Context(), r.PathValue("id"), r.PathValue("despesa_id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Despesa adicionada ao grupo"})
}

func (s *Server) handleRemoveGroupExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.RemoveExpense(r.Context(), r.PathValue("id"), r.PathValue("despesa_id")); err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mensagem": "Despesa removida do grupo"})
}

func (s *Server) handleListGroupUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.groups.ListUsers(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if users == nil {
		users = []core.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.groups.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGroupTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.groups.Totals(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}
