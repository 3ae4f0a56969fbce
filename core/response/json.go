package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as application/json with 200 OK.
func JSON(w http.ResponseWriter, v any) error {
	return JSONWithStatus(w, v, http.StatusOK)
}

// JSONWithStatus writes v as application/json with the given status.
// 204 and 304 responses carry no body.
func JSONWithStatus(w http.ResponseWriter, v any, status int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch status {
	case http.StatusNoContent, http.StatusNotModified:
		return nil
	}

	return json.NewEncoder(w).Encode(v)
}

// String writes s as text/plain with 200 OK.
func String(w http.ResponseWriter, s string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte(s))
	return err
}

// NoContent writes 204 without a body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
