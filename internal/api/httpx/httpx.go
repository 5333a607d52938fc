// Package httpx provides JSON response helpers shared by all handlers.
// Every payload uses the envelope the frontend expects:
// {"success": bool, "data": ..., "message": ...}.
package httpx

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

// WriteData writes a success envelope with the given payload.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// WriteList writes a success envelope with a collection payload and count.
func WriteList(w http.ResponseWriter, status int, data interface{}, count int) {
	writeJSON(w, status, envelope{Success: true, Data: data, Count: &count})
}

// WriteError writes a failure envelope with a human-readable message.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
