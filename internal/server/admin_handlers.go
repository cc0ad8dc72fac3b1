// internal/server/admin_handlers.go
package server

import (
	"net/http"
	"strconv"

	"github.com/devtavares97/baiane-lp/internal/leads"
)

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	token, err := rt.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := rt.auth.Logout(r.Context(), bearerToken(r)); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleLeadsList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := rt.leads.List(r.Context(), limit, offset)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	total, err := rt.leads.Count(r.Context())
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leads": records,
		"total": total,
	})
}

func (rt *Router) handleLeadsSearch(w http.ResponseWriter, r *http.Request) {
	var query leads.SearchQuery
	if err := decodeJSON(r, &query); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	result, err := rt.search.Search(r.Context(), query)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
