package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"facilitae/internal/core"
	"facilitae/internal/log"
)

// errorBody is the envelope every non-2xx response carries.
type errorBody struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorBody{Detail: detail})
}

// respondError maps domain errors to HTTP statuses. Anything untyped is a
// server fault: logged with its cause, answered with a generic detail.
func respondError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	var notFound *core.NotFoundError
	var conflict *core.ConflictError
	var validation *core.ValidationError

	switch {
	case errors.Is(err, core.ErrMalformedID):
		respondDetail(w, http.StatusBadRequest, core.ErrMalformedID.Error())
	case errors.As(err, &notFound):
		respondDetail(w, http.StatusNotFound, notFound.Message)
	case errors.As(err, &conflict):
		respondDetail(w, http.StatusConflict, conflict.Message)
	case errors.As(err, &validation):
		respondDetail(w, http.StatusUnprocessableEntity, validation.Error())
	default:
		logger.ErrorContext(r.Context(), "Unhandled request error",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondDetail(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// decodeJSON reads a request body into dst. Unknown fields are ignored;
// malformed JSON comes back as a validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &core.ValidationError{Field: "body", Message: "JSON inválido"}
	}
	return nil
}

type pagination struct {
	Skip  int64
	Limit int64
}

// parsePagination reads skip and limit query parameters. Missing values fall
// back to the configured defaults, out-of-range values are rejected.
func parsePagination(r *http.Request, defaultLimit, maxLimit int64) (pagination, error) {
	p := pagination{Skip: 0, Limit: defaultLimit}

	if v := strings.TrimSpace(r.URL.Query().Get("skip")); v != "" {
		skip, err := strconv.ParseInt(v, 10, 64)
		if err != nil || skip < 0 {
			return p, errors.New("parâmetro skip inválido")
		}
		p.Skip = skip
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 1 || limit > maxLimit {
			return p, errors.New("parâmetro limit inválido")
		}
		p.Limit = limit
	}

	return p, nil
}

// searchQuery extracts the mandatory query parameter for the buscar routes.
func searchQuery(r *http.Request) (string, error) {
	q := r.URL.Query().Get("query")
	if strings.TrimSpace(q) == "" {
		return "", errors.New("parâmetro query é obrigatório")
	}
	return q, nil
}
