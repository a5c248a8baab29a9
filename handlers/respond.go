package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/models"
)

func WriteJSON(w http.ResponseWriter, status int, payload models.ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// WriteError renders a classified error as its status and message. Anything
// unclassified is logged in full server-side and rendered as a generic 500 so
// internals never leak into the payload.
func WriteError(w http.ResponseWriter, err error) {
	if appErr := apperrors.FromError(err); appErr != nil {
		if appErr.Kind == apperrors.KindInternal && appErr.Err != nil {
			logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", appErr.Err)
		}
		WriteJSON(w, appErr.StatusCode(), models.FailResponse(appErr.Message))
		return
	}

	logging.Logger.Errorf("Event ID: UNCLASSIFIED_ERROR, Description: %v", err)
	WriteJSON(w, http.StatusInternalServerError, models.FailResponse("Internal Server Error"))
}
