// internal/server/respond.go
package server

import (
	"encoding/json"
	"net/http"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a request body into dst, rejecting unknown payloads
// with a validation error instead of a 500.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return stderrors.NewValidationFailedError("invalid JSON body: " + err.Error())
	}
	return nil
}
