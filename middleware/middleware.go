package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/services"

	"github.com/google/uuid"
)

type contextKey string

const claimsContextKey contextKey = "authClaims"

// ClaimsFromContext returns the verified identity the auth middleware stored,
// or nil for an unauthenticated request.
func ClaimsFromContext(ctx context.Context) *services.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*services.Claims)
	return claims
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	message := "Unauthorized"
	if appErr := apperrors.FromError(err); appErr != nil {
		status = appErr.StatusCode()
		message = appErr.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.FailResponse(message))
}

// JWTAuth verifies the bearer token and injects its claims into the request
// context. Handlers behind it can rely on a resolved identity.
func JWTAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logging.Logger.Warnf("Event ID: AUTH_MISSING_TOKEN, Description: Authorization header missing or malformed for %s %s", r.Method, r.URL.Path)
				writeUnauthorized(w, apperrors.Unauthorized("Not authorized, token missing"))
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := tokens.VerifyToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Token verification failed for %s %s: %v", r.Method, r.URL.Path, err)
				writeUnauthorized(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with a correlation id, outcome status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(recorder, r)

		logging.Logger.Infof("Event ID: REQUEST_COMPLETED, Description: Request %s %s %s completed with status %d in %s",
			requestID, r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// EnableCORS allows the mobile client to talk to the API from any origin.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
