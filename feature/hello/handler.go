package hello

import (
	"encoding/json"
	"io"
	"net/http"

	"webboot/core/loader"

	"go.uber.org/zap"
)

// Handler handles HTTP requests for the hello feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the hello routes.
func (h *Handler) RegisterRoutes(r loader.Router) {
	r.Handle(http.MethodGet, "/rest", http.HandlerFunc(h.HandleHello))
	r.Handle(http.MethodGet, "/rest/counter", http.HandlerFunc(h.HandleCounter))
}

// HandleHello answers with a plain text greeting.
func (h *Handler) HandleHello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, h.service.Greet())
}

// CounterResponse is the body of GET /rest/counter.
type CounterResponse struct {
	Count int64 `json:"count"`
}

// HandleCounter reports how many greetings were served.
func (h *Handler) HandleCounter(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CounterResponse{Count: h.service.Count()}); err != nil {
		h.service.logger.Error("Failed to write counter", zap.Error(err))
	}
}
