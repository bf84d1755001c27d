package server

import (
	"net/http"
	"strings"

	"github.com/chatkeep/chatkeep-server/auth"
	"github.com/chatkeep/chatkeep-server/chatposts"
	"github.com/chatkeep/chatkeep-server/folders"
	"github.com/chatkeep/chatkeep-server/internal/config"
	"github.com/chatkeep/chatkeep-server/token"
	"github.com/chatkeep/chatkeep-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the Server
type Repos struct {
	Users     users.Repo
	Folders   folders.Repo
	ChatPosts chatposts.Repo
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	repos   Repos
	auth    *auth.Service
	issuer  *token.Issuer
	metrics *metrics
}

func New(cfg config.Config, repos Repos, authService *auth.Service, issuer *token.Issuer) (*Server, error) {
	if repos.Users == nil {
		return nil, errors.New("[Server New] Users repo is required")
	}
	if repos.Folders == nil {
		return nil, errors.New("[Server New] Folders repo is required")
	}
	if repos.ChatPosts == nil {
		return nil, errors.New("[Server New] ChatPosts repo is required")
	}
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if issuer == nil {
		return nil, errors.New("[Server New] token issuer is required")
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		repos:   repos,
		auth:    authService,
		issuer:  issuer,
		metrics: newMetrics(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// ServeHTTP hands preflight requests to the CORS middleware before routing:
// the mux patterns are method-qualified, so OPTIONS would otherwise 405.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions && r.Header.Get("Origin") != "" {
		s.CorsMiddleware(func(http.ResponseWriter, *http.Request) {})(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
