package httputil

import (
	"net/http"
	"strings"
)

// Envelope: 모든 API 응답이 공유하는 표준 구조체
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// WriteSuccess: success=true 응답을 전송한다. message 는 비어있으면 생략된다.
func WriteSuccess(w http.ResponseWriter, status int, data any, message string) error {
	return WriteJSON(w, status, Envelope{
		Success: true,
		Data:    data,
		Message: strings.TrimSpace(message),
	})
}

// WriteFailure: success=false 응답을 전송한다. code 는 기계 판독용 식별자이다.
func WriteFailure(w http.ResponseWriter, status int, code string, message string) error {
	return WriteJSON(w, status, Envelope{
		Success: false,
		Error:   strings.TrimSpace(message),
		Code:    strings.TrimSpace(code),
	})
}
