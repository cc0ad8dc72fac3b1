// internal/server/router.go
package server

import (
	"net/http"

	"github.com/devtavares97/baiane-lp/internal/auth"
	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
	"github.com/devtavares97/baiane-lp/internal/common/logger"
	"github.com/devtavares97/baiane-lp/internal/gallery"
	"github.com/devtavares97/baiane-lp/internal/growthscan"
	"github.com/devtavares97/baiane-lp/internal/leads"
	"github.com/devtavares97/baiane-lp/internal/links"
)

// Router wires the HTTP surface: the public landing page API and the
// session-guarded admin API.
type Router struct {
	scan    *growthscan.Service
	gallery *gallery.Manager
	links   *links.Store
	leads   *leads.Store
	search  *leads.SearchIndex
	auth    *auth.Manager
	errors  *stderrors.ErrorHandler
	logger  logger.Logger
}

func NewRouter(
	scan *growthscan.Service,
	galleryMgr *gallery.Manager,
	linksStore *links.Store,
	leadsStore *leads.Store,
	search *leads.SearchIndex,
	authMgr *auth.Manager,
	log logger.Logger,
) *Router {
	return &Router{
		scan:    scan,
		gallery: galleryMgr,
		links:   linksStore,
		leads:   leadsStore,
		search:  search,
		auth:    authMgr,
		errors:  stderrors.NewErrorHandler(log),
		logger:  log.WithFields(map[string]interface{}{"component": "http-router"}),
	}
}

// Register mounts every route on the mux. Handler returns the mux
// wrapped with the request metrics middleware.
func (rt *Router) Register(mux *http.ServeMux) {
	// Growth-Scan diagnostic
	mux.HandleFunc("POST /api/growth-scan", rt.handleSubmitScan)
	mux.HandleFunc("POST /api/growth-scan/session", rt.handleStartSession)
	mux.HandleFunc("POST /api/growth-scan/session/{id}/answer", rt.handleAnswer)
	mux.HandleFunc("POST /api/growth-scan/session/{id}/submit", rt.handleSubmitSession)
	mux.HandleFunc("DELETE /api/growth-scan/session/{id}", rt.handleCloseSession)

	// Public content
	mux.HandleFunc("GET /api/gallery", rt.handlePublicGallery)
	mux.HandleFunc("GET /api/links/{slug}", rt.handleLinkPage)

	// Admin auth
	mux.HandleFunc("POST /api/admin/login", rt.handleLogin)
	mux.HandleFunc("POST /api/admin/logout", rt.handleLogout)

	// Admin gallery
	mux.HandleFunc("GET /api/admin/gallery", rt.requireAdmin(rt.handleAdminGalleryList))
	mux.HandleFunc("POST /api/admin/gallery", rt.requireAdmin(rt.handleGalleryUpload))
	mux.HandleFunc("DELETE /api/admin/gallery/{id}", rt.requireAdmin(rt.handleGalleryDelete))
	mux.HandleFunc("PUT /api/admin/gallery/{id}/order", rt.requireAdmin(rt.handleGalleryReorder))
	mux.HandleFunc("PUT /api/admin/gallery/{id}/active", rt.requireAdmin(rt.handleGallerySetActive))

	// Admin links
	mux.HandleFunc("POST /api/admin/links/profiles", rt.requireAdmin(rt.handleCreateProfile))
	mux.HandleFunc("PUT /api/admin/links/profiles/{id}", rt.requireAdmin(rt.handleUpdateProfile))
	mux.HandleFunc("POST /api/admin/links/items", rt.requireAdmin(rt.handleAddLink))
	mux.HandleFunc("PUT /api/admin/links/items/{id}", rt.requireAdmin(rt.handleUpdateLink))
	mux.HandleFunc("DELETE /api/admin/links/items/{id}", rt.requireAdmin(rt.handleDeleteLink))

	// Admin leads
	mux.HandleFunc("GET /api/admin/leads", rt.requireAdmin(rt.handleLeadsList))
	mux.HandleFunc("POST /api/admin/leads/search", rt.requireAdmin(rt.handleLeadsSearch))

	mux.HandleFunc("GET /health", rt.handleHealth)
}

// Handler builds the full handler chain around a fresh mux.
func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	rt.Register(mux)
	return withMetrics(mux)
}

// WrapMetrics wraps an externally built mux, for callers that mount
// extra routes next to the API.
func (rt *Router) WrapMetrics(h http.Handler) http.Handler {
	return withMetrics(h)
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
