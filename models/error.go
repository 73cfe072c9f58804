package models

// Error kinds surfaced to clients alongside the human-readable message.
const (
	KindValidation   = "validation"
	KindConflict     = "conflict"
	KindNotFound     = "not_found"
	KindState        = "state"
	KindUnauthorized = "unauthorized"
	KindStorage      = "storage"
)

type Error struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Response is the success envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
