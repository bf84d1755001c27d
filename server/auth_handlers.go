package server

import (
	"net/http"

	"github.com/chatkeep/chatkeep-server/auth"
	"github.com/pkg/errors"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginHandler verifies credentials and returns the token pair. The refresh
// token additionally travels as an HTTP-only cookie; the access token is body
// only, for bearer use.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := s.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}
			internalError(w, r, err)
			return
		}

		s.setRefreshCookie(w, pair.RefreshToken)
		writeJSON(w, http.StatusOK, pair)
	}
}

// RefreshHandler exchanges a refresh token for a new pair, rotating the
// stored session. The token is read from the cookie, with a JSON body
// fallback for non-browser clients.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := ""
		if cookie, err := r.Cookie(s.config.GetRefreshCookieName()); err == nil {
			rawToken = cookie.Value
		}
		if rawToken == "" {
			var req refreshRequest
			if err := decodeJSON(r, &req); err == nil {
				rawToken = req.RefreshToken
			}
		}
		if rawToken == "" {
			writeError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		pair, err := s.auth.Refresh(r.Context(), rawToken)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenInvalid),
				errors.Is(err, auth.ErrTokenExpired),
				errors.Is(err, auth.ErrSessionNotFound):
				writeError(w, http.StatusUnauthorized, "authentication failed")
			default:
				internalError(w, r, err)
			}
			return
		}

		s.setRefreshCookie(w, pair.RefreshToken)
		writeJSON(w, http.StatusOK, pair)
	}
}

// LogoutHandler clears the caller's refresh session and expires the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "authentication failed")
			return
		}
		if err := s.auth.Logout(r.Context(), claims.Subject); err != nil {
			if errors.Is(err, auth.ErrIdentityNotFound) {
				writeError(w, http.StatusUnauthorized, "authentication failed")
				return
			}
			internalError(w, r, err)
			return
		}
		s.clearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    refreshToken,
		Path:     "/auth",
		MaxAge:   int(s.config.GetRefreshTokenExpiry().Seconds()),
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}
