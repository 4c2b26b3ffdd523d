package api

// SuccessResponse acknowledges a mutating request
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FailureResponse reports a mutating request that was rejected
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse is returned by read endpoints that can fail
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
