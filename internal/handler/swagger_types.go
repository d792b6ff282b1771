package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ExtractRequest represents the extraction request body.
type ExtractRequest struct {
	ClientID string `json:"client_id" binding:"required" example:"client-1042"`
	BlobName string `json:"blob_name" binding:"required" example:"w2_2023.pdf"`
	FormType string `json:"form_type" binding:"required" example:"W-2"`
	DryRun   bool   `json:"dry_run" example:"false"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"document deleted"`
}

// DeletedResponse reports how many rows a delete removed.
type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"42"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
