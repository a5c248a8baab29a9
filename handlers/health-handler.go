package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	client  *mongo.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHealthHandler(client *mongo.Client, breaker *gobreaker.CircuitBreaker) *HealthHandler {
	return &HealthHandler{client: client, breaker: breaker}
}

// Health pings the database behind a circuit breaker so a flapping MongoDB
// does not pile up blocked health probes.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	_, err := h.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		return nil, h.client.Ping(ctx, nil)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: HEALTH_CHECK_FAILED, Description: Database ping failed: %v", err)
		WriteJSON(w, http.StatusServiceUnavailable, models.FailResponse("server is unhealthy"))
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("server is healthy!", nil))
}
