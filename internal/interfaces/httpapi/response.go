package httpapi

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/crimson-data/cfb-analytics/internal/platform/logging"
)

const apiVersion = "2.0"

type responseEnvelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data,omitempty"`
	Error      *responseError `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON renders the envelope through a pooled buffer so response
// encoding does not allocate per request.
func writeJSON(w http.ResponseWriter, status int, envelope responseEnvelope) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	payload, err := sonic.Marshal(envelope)
	if err != nil {
		logging.Default().Error("encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	buf.Set(payload)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, responseEnvelope{APIVersion: apiVersion, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, responseEnvelope{
		APIVersion: apiVersion,
		Error:      &responseError{Code: status, Message: message},
	})
}
