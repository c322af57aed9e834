package portal

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/selab-final/authportal/internal/assets"
	"github.com/selab-final/authportal/internal/auth"
	"github.com/selab-final/authportal/internal/store"
)

const (
	dashboardTemplate = "dashboard.html"
	landingAsset      = "index.html"
	loginRedirect     = "/?loggedin=true"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON reads the whole body as exactly one JSON value.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	var extra json.RawMessage
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return errTrailingData
	}
}

func respond(w http.ResponseWriter, r *http.Request, status int, msg messageResponse) {
	render.Status(r, status)
	render.JSON(w, r, msg)
}

func (p *Portal) handleHome(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		p.serveAsset(w, r, landingAsset)
		return
	}

	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, dashboardTemplate, map[string]string{"Username": username}); err != nil {
		p.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("error rendering dashboard")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (p *Portal) handleAsset(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.serveAsset(w, r, name)
	}
}

func (p *Portal) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	data, err := p.assets.Open(r.Context(), name)
	if err != nil {
		if !errors.Is(err, assets.ErrNotFound) {
			p.log.Error().Err(err).Str("asset", name).Str("request_id", middleware.GetReqID(r.Context())).Msg("failed to read asset")
		}
		plainText(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", assets.ContentType(name, data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (p *Portal) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.GetTokenFromContext(r.Context()); ok && token != "" {
		p.sessions.Destroy(token)
	}

	http.SetCookie(w, p.auth.ExpiredCookie())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (p *Portal) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req registerRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		p.log.Debug().Err(err).Str("request_id", reqID).Msg("invalid register body")
		p.metrics.Registration("invalid")
		respond(w, r, http.StatusBadRequest, messageResponse{Message: "Invalid JSON"})
		return
	}

	id, err := p.store.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, store.ErrDuplicateCredential):
		p.metrics.Registration("duplicate")
		respond(w, r, http.StatusBadRequest, messageResponse{Message: "Username or email already exists"})
		return
	case err != nil:
		p.log.Error().Err(err).Str("request_id", reqID).Msg("registration failed")
		p.metrics.Registration("error")
		respond(w, r, http.StatusInternalServerError, messageResponse{Message: "Registration failed"})
		return
	}

	p.log.Info().Int64("user_id", id).Str("request_id", reqID).Msg("user registered")
	p.metrics.Registration("created")
	respond(w, r, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

func (p *Portal) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req loginRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		p.log.Debug().Err(err).Str("request_id", reqID).Msg("invalid login body")
		p.metrics.Login("invalid")
		respond(w, r, http.StatusBadRequest, messageResponse{Message: "Invalid JSON"})
		return
	}

	username, ok, err := p.store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		p.log.Error().Err(err).Str("request_id", reqID).Msg("login failed")
		p.metrics.Login("error")
		respond(w, r, http.StatusInternalServerError, messageResponse{Message: "Login failed"})
		return
	}
	if !ok {
		p.metrics.Login("rejected")
		respond(w, r, http.StatusUnauthorized, messageResponse{Message: "Invalid username or password"})
		return
	}

	session, err := p.sessions.Create(username)
	if err != nil {
		p.log.Error().Err(err).Str("request_id", reqID).Msg("failed to create session")
		p.metrics.Login("error")
		respond(w, r, http.StatusInternalServerError, messageResponse{Message: "Login failed"})
		return
	}

	p.log.Info().Str("session_id", session.ID.String()).Str("request_id", reqID).Msg("session created")
	p.metrics.Login("success")

	http.SetCookie(w, p.auth.SessionCookie(session.Token))
	respond(w, r, http.StatusOK, messageResponse{Message: "Login successful", Redirect: loginRedirect})
}
