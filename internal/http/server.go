package http

import (
	"context"
	"net/http"
	"time"

	"facilitae/internal/config"
	"facilitae/internal/log"
	"facilitae/internal/middleware/ratelimit"
	"facilitae/internal/middleware/trace"
	"facilitae/internal/services"
)

type Server struct {
	http.Server

	groups   *services.GroupService
	users    *services.UserService
	expenses *services.ExpenseService

	logger  *log.Logger
	limiter *ratelimit.Limiter

	defaultPageSize int64
	maxPageSize     int64

	ready func(context.Context) error
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// ready is consulted by the readiness probe and may be nil.
func NewServer(
	cfg *config.Config,
	groups *services.GroupService,
	users *services.UserService,
	expenses *services.ExpenseService,
	logger *log.Logger,
	ready func(context.Context) error,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		groups:          groups,
		users:           users,
		expenses:        expenses,
		logger:          logger.WithComponent(log.ComponentHTTP),
		limiter:         ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		defaultPageSize: int64(cfg.DefaultPageSize),
		maxPageSize:     int64(cfg.MaxPageSize),
		ready:           ready,
	}

	mux.HandleFunc("GET /{$}", s.handleWelcome)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /grupos", s.handleCreateGroup)
	mux.HandleFunc("GET /grupos", s.handleListGroups)
	mux.HandleFunc("GET /grupos/buscar", s.handleSearchGroups)
	mux.HandleFunc("GET /grupos/ordenados", s.handleListGroupsSorted)
	mux.HandleFunc("GET /grupos/{id}", s.handleGetGroup)
	mux.HandleFunc("PUT /grupos/{id}", s.handleUpdateGroup)
	mux.HandleFunc("DELETE /grupos/{id}", s.handleDeleteGroup)
	mux.HandleFunc("POST /grupos/{id}/usuarios/{usuario_id}", s.handleAddGroupUser)
	mux.HandleFunc("DELETE /grupos/{id}/usuarios/{usuario_id}", s.handleRemoveGroupUser)
	mux.HandleFunc("GET /grupos/{id}/usuarios", s.handleListGroupUsers)
	mux.HandleFunc("POST /grupos/{id}/despesas/{despesa_id}", s.handleAddGroupExpense)
	mux.HandleFunc("DELETE /grupos/{id}/despesas/{despesa_id}", s.handleRemoveGroupExpense)
	mux.HandleFunc("GET /grupos/{id}/despesas", s.handleListGroupExpenses)
	mux.HandleFunc("GET /grupos/{id}/despesas/total", s.handleGroupTotals)

	mux.HandleFunc("POST /usuarios", s.handleCreateUser)
	mux.HandleFunc("GET /usuarios", s.handleListUsers)
	mux.HandleFunc("GET /usuarios/buscar", s.handleSearchUsers)
	mux.HandleFunc("GET /usuarios/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /usuarios/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /usuarios/{id}", s.handleDeleteUser)
	mux.HandleFunc("GET /usuarios/{id}/grupos", s.handleListUserGroups)
	mux.HandleFunc("GET /usuarios/{id}/despesas", s.handleListUserExpenses)
	mux.HandleFunc("DELETE /usuarios/{id}/autoexcluir", s.handleSelfDeleteUser)

	mux.HandleFunc("POST /despesas", s.handleCreateExpense)
	mux.HandleFunc("GET /despesas", s.handleListExpenses)
	mux.HandleFunc("GET /despesas/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /despesas/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /despesas/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /despesas/grupo/{grupo_id}", s.handleListExpensesByGroup)
	mux.HandleFunc("GET /despesas/usuario/{usuario_id}", s.handleListExpensesByUser)

	tracer := trace.NewMiddleware(logger, trace.ClientIP)
	limited := s.limiter.Middleware(trace.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		respondDetail(w, http.StatusTooManyRequests, "Limite de requisições excedido")
	})

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           tracer.Middleware(limited(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"mensagem": "Bem-vindo à API de Compartilhamento de Despesas!",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.WarnContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
