// Package api is the HTTP surface of labtrackd. Each controller maps one
// resource to its medical_* tables through the labsql builder; handle is the
// single boundary that turns errors into failure envelopes.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/memobit/labsql"
)

// Server holds the shared state of every request.
type Server struct {
	db    *labsql.DB
	debug bool
	log   logrus.FieldLogger
}

// Option configures a Server.
type Option func(*Server)

// WithDebug exposes error detail and the last query in failure envelopes.
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.debug = debug
	}
}

// WithLogger sets the request logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer returns a Server backed by db.
func NewServer(db *labsql.DB, opts ...Option) *Server {
	s := &Server{db: db, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// APIEndpoint represents a URL in our API.
type APIEndpoint struct {
	Path string // Path pattern relative to /api.
	Get  handlerFunc
	Post handlerFunc
}

func (s *Server) endpoints() []APIEndpoint {
	clinics := &lookupController{table: "medical_clinics", noun: "Clinic"}
	categories := &lookupController{table: "medical_categories", noun: "Category"}

	var out []APIEndpoint
	out = append(out, clinics.endpoints(s, "/clinics")...)
	out = append(out, categories.endpoints(s, "/categories")...)
	out = append(out, s.analysisEndpoints()...)
	out = append(out, s.analysisLogEndpoints()...)

	return out
}

// Router returns the HTTP handler for the whole API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		for _, e := range s.endpoints() {
			if e.Get != nil {
				r.Get(e.Path, s.handle(e.Get))
			}

			if e.Post != nil {
				r.Post(e.Path, s.handle(e.Post))
			}
		}
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Debug("Handled request")
	})
}
