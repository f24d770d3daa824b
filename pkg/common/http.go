package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type message struct {
	Message string `json:"message"`
}

// WriteMsg writes `{"message": msg}` with the given status.
func WriteMsg(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(message{Message: msg})
}

func WriteRespJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"message":"can't encode response"}`, http.StatusInternalServerError)
	}
}

// ParseReqBody decodes a JSON body into dst, rejecting unknown fields.
func ParseReqBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("common: can't decode request body, %w", err)
	}
	return nil
}
