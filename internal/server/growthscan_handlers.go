// internal/server/growthscan_handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
)

func requestMeta(r *http.Request) growthscan.RequestMeta {
	return growthscan.RequestMeta{
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}

// handleSubmitScan is the one-shot path: a full answer set plus contact
// details in a single request. The payload is schema-checked before it
// is decoded.
func (rt *Router) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("request body unreadable"))
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("invalid JSON body: "+err.Error()))
		return
	}
	if err := growthscan.ValidateSubmission(payload); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	var sub growthscan.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("invalid JSON body: "+err.Error()))
		return
	}

	result, err := rt.scan.Submit(r.Context(), sub, requestMeta(r))
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := rt.scan.StartScan(r.Context())
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (rt *Router) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req growthscan.AnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	session, err := rt.scan.Answer(r.Context(), r.PathValue("id"), req)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	var contact growthscan.Contact
	if err := decodeJSON(r, &contact); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	result, err := rt.scan.SubmitSession(r.Context(), r.PathValue("id"), contact, requestMeta(r))
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := rt.scan.CloseScan(r.Context(), r.PathValue("id")); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
