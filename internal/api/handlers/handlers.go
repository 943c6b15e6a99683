package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// envelope is the common response wrapper
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   status < 400,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().UTC(),
	})
}
