package server

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-signal-server/gateway"
	"github.com/jrsteele09/go-signal-server/internal/config"
	"github.com/jrsteele09/go-signal-server/sessions"
	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/jrsteele09/go-signal-server/subscriptions"
	"github.com/jrsteele09/go-signal-server/users"
	"github.com/rs/zerolog/log"
)

// Services are the components the HTTP layer maps requests onto.
type Services struct {
	Users         *users.CredentialStore
	Ledger        *signals.Ledger
	Broadcaster   *signals.Broadcaster // Optional
	Subscriptions *subscriptions.Registry
	Sessions      *sessions.Manager
	Gateway       *gateway.Gateway
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	users         *users.CredentialStore
	ledger        *signals.Ledger
	broadcaster   *signals.Broadcaster
	subscriptions *subscriptions.Registry
	sessions      *sessions.Manager
	gateway       *gateway.Gateway

	postIngress signals.Ingress
	getIngress  signals.Ingress
}

func New(config config.Config, services Services) *Server {
	s := &Server{
		env:           config.GetEnv(),
		mux:           http.NewServeMux(),
		config:        config,
		users:         services.Users,
		ledger:        services.Ledger,
		broadcaster:   services.Broadcaster,
		subscriptions: services.Subscriptions,
		sessions:      services.Sessions,
		gateway:       services.Gateway,
		postIngress:   signals.AdvisorIngress.WithNormalize(config.GetNormalizePostSignals()),
		getIngress:    signals.QueryIngress.WithNormalize(config.GetNormalizeGetSignals()),
	}

	s.initRoutes()
	s.logRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func colourStatus(status int) string {
	if status >= http.StatusBadRequest {
		return Red + strconv.Itoa(status) + ResetColor
	}
	return strconv.Itoa(status)
}

// clientAddr prefers the first X-Forwarded-For hop over the socket address.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
