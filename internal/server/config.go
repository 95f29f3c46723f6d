package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/tel9980/KVideo/internal/shared"
	"github.com/tel9980/KVideo/internal/store"
)

// configResponse is the GET /api/config payload.
type configResponse struct {
	HasEnvPassword      bool                    `json:"hasEnvPassword"`
	SubscriptionSources []store.EnvSubscription `json:"subscriptionSources,omitempty"`
}

// validateRequest is the POST /api/config payload.
type validateRequest struct {
	Password string `json:"password"`
}

// validateResponse is the POST /api/config answer.
type validateResponse struct {
	Valid bool `json:"valid"`
}

// ConfigHandler serves the gate configuration endpoint. The password itself
// never leaves the server, only its presence and a validation verdict.
type ConfigHandler struct {
	password      string
	subscriptions []store.EnvSubscription
	limiter       *rate.Limiter
	logger        *log.Logger
}

// NewConfigHandler builds a handler from the server config. Validation
// attempts are limited to one per second with a small burst.
func NewConfigHandler(conf shared.ServerConfig, logger *log.Logger) *ConfigHandler {
	if logger == nil {
		logger = log.Default()
	}

	subscriptions := make([]store.EnvSubscription, 0, len(conf.SubscriptionURLs))
	for _, u := range conf.SubscriptionURLs {
		if u == "" {
			continue
		}
		subscriptions = append(subscriptions, store.EnvSubscription{URL: u})
	}

	return &ConfigHandler{
		password:      conf.EnvPassword(),
		subscriptions: subscriptions,
		limiter:       rate.NewLimiter(rate.Limit(1), 5),
		logger:        logger,
	}
}

// Routes returns the patterns this handler serves.
func (h *ConfigHandler) Routes() []string {
	return []string{"GET /api/config", "POST /api/config"}
}

// ServeHTTP dispatches to the read or validate path.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getConfig(w)
	case http.MethodPost:
		h.validate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) getConfig(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, configResponse{
		HasEnvPassword:      h.password != "",
		SubscriptionSources: h.subscriptions,
	})
}

func (h *ConfigHandler) validate(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		h.logger.Warn("validation rate limit hit", "remote", r.RemoteAddr)
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{Valid: h.matches(req.Password)})
}

// matches compares the candidate in constant time. A server without a
// configured password rejects everything.
func (h *ConfigHandler) matches(candidate string) bool {
	if h.password == "" || candidate == "" {
		return false
	}

	want := sha256.Sum256([]byte(h.password))
	got := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(want[:], got[:]) == 1
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
