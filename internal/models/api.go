package models

// APIError is the error body used by the session and upload APIs.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorResponse wraps an APIError.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// UploadedFile describes a stored upload.
type UploadedFile struct {
	Name     string `json:"name"`
	StoredAs string `json:"storedAs"`
	Topic    string `json:"topic"`
}

// UploadResponse is the success body of the upload endpoint.
type UploadResponse struct {
	Success bool         `json:"success"`
	File    UploadedFile `json:"file"`
}
