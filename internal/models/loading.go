package models

// ErrorInfo carries a surfaced error with the HTTP status when one exists.
// Status 0 means the failure happened below the HTTP layer.
type ErrorInfo struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// LoadingState is attached to every asynchronous store operation. It never
// holds IsLoading true together with a non-nil Error.
type LoadingState struct {
	IsLoading bool       `json:"isLoading"`
	Error     *ErrorInfo `json:"error"`
}

// UploadRequestDto carries a base64-encoded file and/or a metadata JSON
// string to the pinning endpoint.
type UploadRequestDto struct {
	File     string `json:"file,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

// UploadResponseDto is the pinning endpoint reply.
type UploadResponseDto struct {
	Status string `json:"status"`
	Photo  string `json:"photo,omitempty"`
	URL    string `json:"url,omitempty"`
}
