package router

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Router dispatches on method plus path pattern. A "*" segment matches
// exactly one path segment; a trailing "*" matches the rest of the path.
type Router struct {
	routes []route
	logger *zap.Logger
}

type route struct {
	method   string
	segments []string
	handler  http.HandlerFunc
}

func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{logger: logger}
}

func (r *Router) GET(path string, h http.HandlerFunc)    { r.register(http.MethodGet, path, h) }
func (r *Router) POST(path string, h http.HandlerFunc)   { r.register(http.MethodPost, path, h) }
func (r *Router) DELETE(path string, h http.HandlerFunc) { r.register(http.MethodDelete, path, h) }

func (r *Router) register(method, path string, h http.HandlerFunc) {
	r.routes = append(r.routes, route{
		method:   method,
		segments: splitPath(path),
		handler:  h,
	})
}

// ServeHTTP matches routes in registration order, so more specific
// patterns must be registered before wildcard ones.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	segments := splitPath(req.URL.Path)
	pathKnown := false
	handled := false
	for _, rt := range r.routes {
		if !match(rt.segments, segments) {
			continue
		}
		pathKnown = true
		if rt.method != req.Method {
			continue
		}
		rt.handler(lrw, req)
		handled = true
		break
	}
	if !handled {
		if pathKnown {
			http.Error(lrw, "Method Not Allowed", http.StatusMethodNotAllowed)
		} else {
			http.Error(lrw, "Not Found", http.StatusNotFound)
		}
	}

	r.logger.Info("http request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", lrw.statusCode),
		zap.Duration("took", time.Since(start)))
}

// Start runs the HTTP server on addr, blocking until it fails.
func (r *Router) Start(addr string) error {
	r.logger.Info("server started", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func match(pattern, segments []string) bool {
	for i, ps := range pattern {
		if ps == "*" && i == len(pattern)-1 {
			// Trailing wildcard swallows the rest of the path.
			return len(segments) >= len(pattern)
		}
		if i >= len(segments) {
			return false
		}
		if ps != "*" && ps != segments[i] {
			return false
		}
	}
	return len(segments) == len(pattern)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
