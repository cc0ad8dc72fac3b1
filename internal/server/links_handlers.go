// internal/server/links_handlers.go
package server

import (
	"net/http"
)

func (rt *Router) handleLinkPage(w http.ResponseWriter, r *http.Request) {
	page, err := rt.links.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	profile, err := rt.links.CreateProfile(r.Context(), req.Slug, req.Name)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (rt *Router) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	if err := rt.links.UpdateProfile(r.Context(), r.PathValue("id"), req.Name, req.Bio, req.AvatarURL); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfileID string `json:"profile_id"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		Icon      string `json:"icon"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	item, err := rt.links.AddLink(r.Context(), req.ProfileID, req.Title, req.URL, req.Icon)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (rt *Router) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Icon  string `json:"icon"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	if err := rt.links.UpdateLink(r.Context(), r.PathValue("id"), req.Title, req.URL, req.Icon); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := rt.links.DeleteLink(r.Context(), r.PathValue("id")); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
