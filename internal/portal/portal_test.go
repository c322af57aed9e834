package portal

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/selab-final/authportal/internal/assets"
	"github.com/selab-final/authportal/internal/auth"
	"github.com/selab-final/authportal/internal/config"
	"github.com/selab-final/authportal/internal/database"
	"github.com/selab-final/authportal/internal/store"
	"github.com/selab-final/authportal/web"
)

// PortalTestSuite drives the full stack against a temporary SQLite database
// and the embedded web assets.
type PortalTestSuite struct {
	suite.Suite
	db *database.DB
	tp *testPortal
}

func (s *PortalTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Type = database.SQLite
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "portal_test.db")

	db, err := database.Open(context.Background(), cfg)
	s.Require().NoError(err)
	s.db = db

	sessions := auth.NewRegistry(time.Hour)
	p, err := New(Options{
		Store:    store.New(db),
		Sessions: sessions,
		Assets:   assets.NewFSSource(web.Public()),
	})
	s.Require().NoError(err)

	s.tp = &testPortal{handler: p.Routes(), sessions: sessions}
}

func (s *PortalTestSuite) TearDownTest() {
	s.db.Close()
}

func TestPortalTestSuite(t *testing.T) {
	suite.Run(t, new(PortalTestSuite))
}

func (s *PortalTestSuite) TestRegisterLoginLogoutFlow() {
	body := `{"username":"alice","email":"a@x.com","password":"p"}`

	rec := s.tp.do(http.MethodPost, "/register", body)
	s.Equal(http.StatusCreated, rec.Code)
	s.JSONEq(`{"message":"User registered successfully"}`, rec.Body.String())

	rec = s.tp.do(http.MethodPost, "/register", body)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"message":"Username or email already exists"}`, rec.Body.String())

	rec = s.tp.do(http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.tp.do(http.MethodPost, "/login", `{"username":"alice","password":"p"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	cookie := sessionCookie(s.T(), rec)

	rec = s.tp.do(http.MethodGet, "/", "", cookie)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Hello, alice")

	rec = s.tp.do(http.MethodGet, "/logout", "", cookie)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/", rec.Header().Get("Location"))

	rec = s.tp.do(http.MethodGet, "/", "", cookie)
	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "Hello, alice")
	s.Contains(rec.Body.String(), "loginFormElement")
}

func (s *PortalTestSuite) TestEmbeddedAssets() {
	for path, contentType := range map[string]string{
		"/style.css":    "text/css",
		"/login.js":     "application/javascript",
		"/register.js":  "application/javascript",
		"/ius-logo.png": "image/png",
	} {
		rec := s.tp.do(http.MethodGet, path, "")
		s.Equal(http.StatusOK, rec.Code, path)
		s.Equal(contentType, rec.Header().Get("Content-Type"), path)
		s.NotEmpty(rec.Body.Bytes(), path)
	}
}
