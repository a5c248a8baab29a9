package models

// ApiResponse is the envelope every endpoint renders, success or failure.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(message string, data interface{}) ApiResponse {
	return ApiResponse{Success: true, Message: message, Data: data}
}

func FailResponse(message string) ApiResponse {
	return ApiResponse{Success: false, Message: message}
}
