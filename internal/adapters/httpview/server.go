// Package httpview exposes a read-only introspection view of the signal
// mesh over HTTP: chi routes backed by the live signal.Registry, validated
// against an embedded OpenAPI document with kin-openapi instead of the
// code-generated bindings the teacher's equivalent server relies on (code
// generation cannot run in this environment).
package httpview

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// Server is the chi-routed HTTP introspection view.
type Server struct {
	registry *signal.Registry
	router   chi.Router
	spec     *openapi3.T
}

// New builds a Server over registry. It loads and validates the embedded
// OpenAPI document at construction time, matching the teacher's practice
// of failing fast on a malformed spec rather than at first request.
func New(registry *signal.Registry) (*Server, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData([]byte(openapiDocument))
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, err
	}

	s := &Server{registry: registry, spec: spec}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	router, err := legacyrouter.NewRouter(s.spec)
	if err != nil {
		// The spec was already validated in New; a router build failure
		// here would mean kin-openapi itself rejected a valid document.
		panic(err)
	}
	validate := s.requestValidator(router)

	r.Get("/openapi.yaml", s.handleSpec)
	r.Handle("/metrics", promhttp.Handler())
	r.With(validate).Get("/signals", s.handleListSignals)
	r.With(validate).Get("/signals/{id}/value", s.handleSignalValue)
	r.With(validate).Get("/signals/{id}/graph", s.handleSignalGraph)
	return r
}

func (s *Server) requestValidator(router routers.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r) // route not in the spec; let chi 404 naturally
				return
			}
			input := &openapi3filter.RequestValidationInput{
				Request:     r,
				PathParams:  pathParams,
				Route:       route,
				QueryParams: r.URL.Query(),
			}
			if err := openapi3filter.ValidateRequest(context.Background(), input); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write([]byte(openapiDocument))
}

type signalSummary struct {
	ID              string `json:"id"`
	Value           int64  `json:"value"`
	Blocked         bool   `json:"blocked"`
	GlitchAvoidance bool   `json:"glitchAvoidance"`
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	summaries := make([]signalSummary, 0)
	for _, id := range s.registry.IDs() {
		a, ok := s.registry.Get(id)
		if !ok {
			continue
		}
		summaries = append(summaries, signalSummary{
			ID:              a.ID(),
			Value:           a.Value(),
			Blocked:         a.Blocked(),
			GlitchAvoidance: a.GlitchAvoidance(),
		})
	}
	writeJSON(w, summaries)
}

func (s *Server) handleSignalValue(w http.ResponseWriter, r *http.Request) {
	id, err := bindPathParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, ok := s.registry.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, signalSummary{
		ID:              a.ID(),
		Value:           a.Value(),
		Blocked:         a.Blocked(),
		GlitchAvoidance: a.GlitchAvoidance(),
	})
}

func (s *Server) handleSignalGraph(w http.ResponseWriter, r *http.Request) {
	id, err := bindPathParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, ok := s.registry.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, err := domain.GraphToJSON(a.Graph())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// bindPathParam decodes a path parameter the way generated oapi-codegen
// bindings would, rather than trusting chi.URLParam's raw string directly.
// Every path parameter in the embedded document uses OpenAPI's default
// "simple" style with no explosion, so this is the one binding shape the
// introspection API needs.
func bindPathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	var dst string
	if err := runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, raw, &dst); err != nil {
		return "", err
	}
	return dst, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
