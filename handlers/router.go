package handlers

import (
	"context"
	"net/http"
	"time"

	"personal-task-manager/logging"
	"personal-task-manager/middleware"
	"personal-task-manager/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Auth     *AuthHandler
	Tasks    *TaskHandler
	Sessions *services.SessionManager
	Store    Pinger
}

func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, middleware.Metrics, middleware.LoadSession(cfg.Sessions))

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireSession(h)
	}

	r.HandleFunc("/", cfg.Auth.Index).Methods(http.MethodGet)
	r.HandleFunc("/register", cfg.Auth.RegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", cfg.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", cfg.Auth.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", cfg.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", cfg.Auth.Logout).Methods(http.MethodGet)

	r.Handle("/dashboard", authed(cfg.Tasks.Dashboard)).Methods(http.MethodGet)
	r.Handle("/view/{id:[0-9]+}", authed(cfg.Tasks.ViewTask)).Methods(http.MethodGet)
	r.Handle("/add", authed(cfg.Tasks.AddTask)).Methods(http.MethodPost)
	r.Handle("/delete/{id:[0-9]+}", authed(cfg.Tasks.DeleteTask)).Methods(http.MethodGet)
	r.Handle("/complete/{id:[0-9]+}", authed(cfg.Tasks.CompleteTask)).Methods(http.MethodGet)
	r.Handle("/export", authed(cfg.Tasks.ExportTasks)).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler(cfg.Store)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// mux skips r.Use middleware when no route matches.
	r.NotFoundHandler = middleware.RequestLogger(middleware.Metrics(http.NotFoundHandler()))
	r.MethodNotAllowedHandler = middleware.RequestLogger(middleware.Metrics(http.HandlerFunc(methodNotAllowed)))

	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func healthHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logging.Logger.Warnf("Event ID: HEALTH_CHECK_FAILED, Description: Store ping failed: %v", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
