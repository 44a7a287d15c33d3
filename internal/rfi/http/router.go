package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/buildvane/rfihub/internal/rfi/obs"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/internal/rfi/store"
	"github.com/buildvane/rfihub/pkg/httpx"
	"github.com/buildvane/rfihub/pkg/jwtx"
	"github.com/buildvane/rfihub/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	DirectoryService    *service.DirectoryService
	ProjectService      *service.ProjectService
	RFIService          *service.RFIService
	ClientAccessService *service.ClientAccessService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCompanies()
	r.registerProjects()
	r.registerRFIs()
	r.registerClientPortal()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps an authenticated tenant endpoint: bearer verification first,
// per-user rate limiting after.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerCompanies() {
	h := &CompaniesHandler{Directory: r.DirectoryService}

	r.Mux.Handle("POST /v1/companies", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/companies", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/companies/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/companies/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))

	r.Mux.Handle("GET /v1/companies/{id}/members", r.secured(h.HandleListMembers, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/companies/{id}/members", r.secured(h.HandleAddMember, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/companies/{id}/members/{userID}", r.secured(h.HandleUpdateMemberRole, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/companies/{id}/members/{userID}", r.secured(h.HandleRemoveMember, httpx.ModerateLimit))
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{Directory: r.DirectoryService, Projects: r.ProjectService}

	r.Mux.Handle("POST /v1/projects", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/projects", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/projects/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/projects/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/projects/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerRFIs() {
	h := &RFIsHandler{Directory: r.DirectoryService, RFIs: r.RFIService}
	links := &ClientLinkHandler{Directory: r.DirectoryService, Links: r.ClientAccessService}

	r.Mux.Handle("POST /v1/projects/{id}/rfis", r.secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/projects/{id}/rfis", r.secured(h.HandleListForProject, httpx.LenientLimit))

	r.Mux.Handle("GET /v1/rfis/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/rfis/{id}", r.secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/rfis/{id}", r.secured(h.HandleDelete, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/rfis/{id}/transition", r.secured(h.HandleTransition, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/rfis/{id}/notifications", r.secured(h.HandleNotifications, httpx.LenientLimit))

	r.Mux.Handle("POST /v1/rfis/{id}/client-link", r.secured(links.HandleMint, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/rfis/{id}/client-link", r.secured(links.HandleRevoke, httpx.ModerateLimit))
}

func (r *Router) registerClientPortal() {
	h := &ClientPortalHandler{Links: r.ClientAccessService}

	// Anonymous surface. Strict per-IP limits make token guessing
	// impractical on top of the 256-bit token space.
	r.Mux.Handle("GET /v1/client/rfi",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/client/rfi/response",
		httpx.Chain(http.HandlerFunc(h.HandleRespond),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", obs.Handler())
}
