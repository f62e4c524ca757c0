package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/api/version", h.getVersion)
	router.Get("/api/events", h.events)

	router.Route("/api/repos", func(r chi.Router) {
		r.Use(withGZip)
		r.Get("/", h.listRepos)
		r.Post("/sync", h.syncAll)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getRepo)
			r.Patch("/", h.patchRepo)
			r.Delete("/", h.deleteRepo)
			r.Post("/sync", h.syncRepo)
			r.Get("/packages", h.listPackages)
			r.Put("/mirrors", h.setUserMirrors)
			r.Put("/disabled-mirrors", h.setDisabledMirrors)
			r.Put("/credentials", h.setCredentials)
		})
	})

	router.Route("/api/add-repo", func(r chi.Router) {
		r.Get("/", h.getAddRepo)
		r.Post("/", h.startAddRepo)
		r.Delete("/", h.abortAddRepo)
		r.Post("/commit", h.commitAddRepo)
	})

	table, err := newRouteTable(router)
	if err != nil {
		h.logger.Err(err).Str("func", "*Handler.Init").Msg("failed to collect routes")
	}
	router.MethodNotAllowed(methodNotAllowed(table))

	return router
}

var routeMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// routeTable maps every registered pattern to the methods it serves.
type routeTable map[string]map[string]bool

func newRouteTable(router chi.Routes) (routeTable, error) {
	table := make(routeTable)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		route = trimSlash(route)
		if table[route] == nil {
			table[route] = make(map[string]bool)
		}
		table[route][method] = true
		return nil
	})
	return table, err
}

// allowed returns the methods of the pattern matching path, preferring static
// segments over parameters the way the router does.
func (t routeTable) allowed(path string) []string {
	segments := strings.Split(trimSlash(path), "/")

	best, bestScore := "", -1
	for route := range t {
		score, ok := matchRoute(strings.Split(route, "/"), segments)
		if ok && (score > bestScore || score == bestScore && route < best) {
			best, bestScore = route, score
		}
	}
	if bestScore < 0 {
		return nil
	}

	var methods []string
	for _, method := range routeMethods {
		if t[best][method] {
			methods = append(methods, method)
		}
	}
	return methods
}

// matchRoute reports whether path matches route segment by segment and how
// many segments matched literally.
func matchRoute(route, path []string) (int, bool) {
	if len(route) != len(path) {
		return 0, false
	}
	static := 0
	for i, seg := range route {
		switch {
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			if path[i] == "" {
				return 0, false
			}
		case seg == path[i]:
			static++
		default:
			return 0, false
		}
	}
	return static, true
}

func trimSlash(path string) string {
	if trimmed := strings.TrimSuffix(path, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// methodNotAllowed answers 405 with an Allow header listing the methods the
// requested path does support.
func methodNotAllowed(table routeTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", strings.Join(table.allowed(r.URL.Path), ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
