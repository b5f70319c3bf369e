package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mediauser/internal/app"
	"mediauser/internal/domain"
	"mediauser/internal/usertoken"
	"mediauser/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App    *app.App
	Tokens *usertoken.Issuer
}

// Server exposes the user-account HTTP endpoints.
type Server struct {
	app    *app.App
	tokens *usertoken.Issuer
	mux    *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:    cfg.App,
		tokens: cfg.Tokens,
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/user/register", s.handleRegister)
	s.mux.HandleFunc("/api/user/login", s.handleLogin)

	s.mux.Handle("/api/user/favourites", s.authenticated(s.handleList(domain.ListFavourites)))
	s.mux.Handle("/api/user/favourites/", s.authenticated(s.handleListItem(domain.ListFavourites)))
	s.mux.Handle("/api/user/history", s.authenticated(s.handleList(domain.ListHistory)))
	s.mux.Handle("/api/user/history/", s.authenticated(s.handleListItem(domain.ListHistory)))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

// authenticated rejects the request before the handler runs unless the
// bearer token verifies and resolves to an existing user. The handler only
// ever sees the identity derived from the token, never client-supplied ids.
func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			util.LoggerFromContext(r.Context()).Warn("token rejected", "path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, err := s.app.GetUserByID(claims.Subject)
		if err != nil {
			// A decodable token for a vanished user is unauthenticated, not
			// a server error.
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	msg, err := s.app.Register(req.UserName, req.Password, req.Password2)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPasswordMismatch),
			errors.Is(err, app.ErrMissingFields),
			errors.Is(err, app.ErrUserNameTaken):
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
		default:
			util.LoggerFromContext(r.Context()).Warn("register failed", "err", err)
			writeMessage(w, http.StatusBadRequest, "There was an error creating the user")
		}
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	user, err := s.app.Authenticate(req.UserName, req.Password)
	if err != nil {
		if !errors.Is(err, app.ErrInvalidCredentials) {
			util.LoggerFromContext(r.Context()).Warn("login failed", "err", err)
		}
		writeMessage(w, http.StatusUnauthorized, app.ErrInvalidCredentials.Error())
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("issue token", "err", err)
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: token})
}

// handleList serves GET on a whole list.
func (s *Server) handleList(kind domain.ListKind) authHandler {
	return func(w http.ResponseWriter, r *http.Request, user domain.User) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		list, err := s.list(kind, user.ID)
		if err != nil {
			s.writeListError(w, r, kind, "get", err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// handleListItem serves PUT (add) and DELETE (remove) on a single item.
func (s *Server) handleListItem(kind domain.ListKind) authHandler {
	prefix := "/api/user/" + string(kind) + "/"
	return func(w http.ResponseWriter, r *http.Request, user domain.User) {
		itemID := strings.TrimPrefix(r.URL.Path, prefix)
		if itemID == "" || strings.Contains(itemID, "/") {
			http.NotFound(w, r)
			return
		}
		var (
			list []string
			err  error
		)
		switch r.Method {
		case http.MethodPut:
			list, err = s.addItem(kind, user.ID, itemID)
		case http.MethodDelete:
			list, err = s.removeItem(kind, user.ID, itemID)
		default:
			methodNotAllowed(w)
			return
		}
		if err != nil {
			s.writeListError(w, r, kind, "update", err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) list(kind domain.ListKind, userID string) ([]string, error) {
	if kind == domain.ListHistory {
		return s.app.History(userID)
	}
	return s.app.Favourites(userID)
}

func (s *Server) addItem(kind domain.ListKind, userID, itemID string) ([]string, error) {
	if kind == domain.ListHistory {
		return s.app.AddHistory(userID, itemID)
	}
	return s.app.AddFavourite(userID, itemID)
}

func (s *Server) removeItem(kind domain.ListKind, userID, itemID string) ([]string, error) {
	if kind == domain.ListHistory {
		return s.app.RemoveHistory(userID, itemID)
	}
	return s.app.RemoveFavourite(userID, itemID)
}

// writeListError maps list-operation failures to 422 without leaking store
// internals. Named conditions keep their fixed messages.
func (s *Server) writeListError(w http.ResponseWriter, r *http.Request, kind domain.ListKind, op string, err error) {
	msg := fmt.Sprintf("unable to %s %s", op, kind)
	if errors.Is(err, app.ErrListFull) || errors.Is(err, app.ErrUserNotFound) {
		msg = err.Error()
	} else {
		util.LoggerFromContext(r.Context()).Warn("list operation failed", "list", string(kind), "op", op, "err", err)
	}
	writeError(w, http.StatusUnprocessableEntity, msg)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

type registerRequest struct {
	UserName  string `json:"userName"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
