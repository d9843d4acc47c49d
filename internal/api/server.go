// Package api serves comment rendering over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/finops-claw-gang/infracost-comment/internal/observability"
	"github.com/finops-claw-gang/infracost-comment/internal/ratelimit"
)

// MaxBodyBytes caps the size of a render request.
const MaxBodyBytes = 8 << 20

// Options configures a Server.
type Options struct {
	CORSOrigins []string
	OIDC        OIDCConfig
	// RateLimit is the per-client requests per second. Zero disables limiting.
	RateLimit float64
	Metrics   *observability.Metrics
}

// Server is the HTTP API server for cost comment rendering.
type Server struct {
	opts    Options
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a Server. When OIDC is enabled the issuer is discovered using ctx.
func New(ctx context.Context, opts Options) (*Server, error) {
	s := &Server{opts: opts, mux: http.NewServeMux()}
	s.routes()

	var h http.Handler = s.mux
	if opts.RateLimit > 0 {
		h = rateLimit(ratelimit.NewClientLimiter(opts.RateLimit), h)
	}
	if opts.OIDC.Enabled {
		provider, err := oidc.NewProvider(ctx, opts.OIDC.IssuerURL)
		if err != nil {
			return nil, fmt.Errorf("api: oidc discovery %s: %w", opts.OIDC.IssuerURL, err)
		}
		h = oidcAuth(provider, opts.OIDC.Audience)(h)
	}
	h = requestID(logging(cors(opts.CORSOrigins, h)))
	s.handler = otelhttp.NewHandler(h, "infracost-api")
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/currencies/{code}", s.handleCurrency)
	s.mux.HandleFunc("POST /api/v1/render", s.handleRender)
}
