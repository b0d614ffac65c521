package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// requestTimeout bounds how long an HTTP handler waits on the game loop's
// admin channel before giving up (spec.md §4.11's best-effort contract).
const requestTimeout = 2 * time.Second

// RouterConfig wires the HTTP surface to the game loop's admin channel.
type RouterConfig struct {
	Channel     chan Request
	RateLimiter *IPRateLimiter
}

// NewRouter constructs the admin HTTP router. No listeners are started
// here; when cfg.RateLimiter is nil, the default limiter it creates starts
// its own cleanup goroutine.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)
	}
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	h := &handlers{channel: cfg.Channel}

	r.Get("/ping", h.ping)
	r.Post("/stop", h.stop)
	r.Get("/sessions", h.sessions)
	r.Post("/remove_session", h.removeSession)
	r.Get("/status", h.status)
	r.Get("/world", h.world)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type handlers struct {
	channel chan Request
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("admin: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]string{"Error": message})
}

func (h *handlers) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"Ok": nil})
}

func (h *handlers) stop(w http.ResponseWriter, r *http.Request) {
	resp, ok := Send(h.channel, Stop, 0, requestTimeout)
	if !ok {
		writeError(w, "admin channel unavailable")
		return
	}
	if resp.Err != "" {
		writeError(w, resp.Err)
		return
	}
	writeJSON(w, map[string]interface{}{"Ok": nil})
}

func (h *handlers) sessions(w http.ResponseWriter, r *http.Request) {
	resp, ok := Send(h.channel, GetSessions, 0, requestTimeout)
	if !ok {
		writeError(w, "admin channel unavailable")
		return
	}
	writeJSON(w, resp.Sessions)
}

func (h *handlers) removeSession(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("session_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(w, "invalid session_id")
		return
	}
	resp, ok := Send(h.channel, RemoveSession, id, requestTimeout)
	if !ok {
		writeError(w, "admin channel unavailable")
		return
	}
	if resp.Err != "" {
		writeError(w, resp.Err)
		return
	}
	writeJSON(w, map[string]interface{}{"Ok": nil})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	resp, ok := Send(h.channel, GetStatus, 0, requestTimeout)
	if !ok {
		writeError(w, "admin channel unavailable")
		return
	}
	writeJSON(w, resp.Status)
}

func (h *handlers) world(w http.ResponseWriter, r *http.Request) {
	resp, ok := Send(h.channel, GetWorld, 0, requestTimeout)
	if !ok {
		writeError(w, "admin channel unavailable")
		return
	}
	writeJSON(w, resp.World)
}
