package server

import (
	"net/http"
	"time"

	"justus/auth"
	"justus/domain/chat"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Register(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setAuthCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Login(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.setAuthCookie(w, session.Token)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, messageBody{Message: "Logged out successfully"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []chat.Profile{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CookieSecure,
		MaxAge:   int(s.auth.TokenDuration() / time.Second),
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.CookieSecure,
		MaxAge:   -1,
	})
}
