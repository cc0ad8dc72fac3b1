// internal/server/gallery_handlers.go
package server

import (
	"io"
	"net/http"
	"strconv"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/gallery"
)

const maxUploadSize = 10 << 20 // per request, all files included

func (rt *Router) handlePublicGallery(w http.ResponseWriter, r *http.Request) {
	category := gallery.Category(r.URL.Query().Get("category"))
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	items, err := rt.gallery.ListByCategory(r.Context(), category, limit)
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (rt *Router) handleAdminGalleryList(w http.ResponseWriter, r *http.Request) {
	items, err := rt.gallery.ListAll(r.Context())
	if err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// handleGalleryUpload accepts multipart uploads. One file behaves like
// the single-upload form; several files run as a bulk upload with
// per-file outcomes.
func (rt *Router) handleGalleryUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("invalid multipart form: "+err.Error()))
		return
	}

	category := gallery.Category(r.FormValue("category"))
	order := 0
	if raw := r.FormValue("order"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			order = n
		}
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("no file in upload"))
		return
	}

	requests := make([]gallery.UploadRequest, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("unreadable file: "+header.Filename))
			return
		}
		body, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			rt.errors.WriteError(w, r, stderrors.NewValidationFailedError("unreadable file: "+header.Filename))
			return
		}
		requests = append(requests, gallery.UploadRequest{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        body,
			Category:    category,
			Caption:     r.FormValue("caption"),
			Alt:         r.FormValue("alt"),
		})
	}

	if len(requests) == 1 {
		requests[0].Order = order
		imageURL, err := rt.gallery.Upload(r.Context(), requests[0])
		if err != nil {
			rt.errors.WriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, gallery.UploadResult{Success: true, ImageURL: imageURL})
		return
	}

	result := rt.gallery.BulkUpload(r.Context(), requests, order)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) handleGalleryDelete(w http.ResponseWriter, r *http.Request) {
	if err := rt.gallery.Delete(r.Context(), r.PathValue("id")); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleGalleryReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order int `json:"order"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	if err := rt.gallery.Reorder(r.Context(), r.PathValue("id"), req.Order); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleGallerySetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}

	if err := rt.gallery.SetActive(r.Context(), r.PathValue("id"), req.Active); err != nil {
		rt.errors.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
