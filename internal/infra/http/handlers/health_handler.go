package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// ConnectionState is satisfied by *amqp091.Connection.
type ConnectionState interface {
	IsClosed() bool
}

type HealthHandler struct {
	RabbitMQ       ConnectionState
	PartnersAPIURL string
	StartTime      time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler accepts a nil rabbitMQ when lead events are disabled.
func NewHealthHandler(rabbitMQ ConnectionState, partnersAPIURL string) *HealthHandler {
	return &HealthHandler{
		RabbitMQ:       rabbitMQ,
		PartnersAPIURL: partnersAPIURL,
		StartTime:      time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.PartnersAPIURL != "" {
		deps["partners_api"] = "configured"
	} else {
		deps["partners_api"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}
