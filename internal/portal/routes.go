package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/selab-final/authportal/internal/auth"
)

// publicAssets are the only files served from the asset source by name.
var publicAssets = []string{"style.css", "login.js", "register.js", "ius-logo.png"}

func (p *Portal) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	// go-chi/cors contributes the Vary headers; corsHeaders pins the Allow-* values.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     allowedMethods,
		AllowedHeaders:     allowedHeaders,
		OptionsPassthrough: true,
	}))
	r.Use(corsHeaders)
	r.Use(methodGate)
	if p.metrics != nil {
		r.Use(p.metrics.Middleware)
	}
	r.Use(middleware.Heartbeat("/heartbeat"))
	r.Use(auth.SessionMiddleware(p.sessions, p.auth.CookieName))

	// Public routes
	r.Get("/", p.handleHome)
	r.Get("/index.html", p.handleHome)
	for _, name := range publicAssets {
		r.Get("/"+name, p.handleAsset(name))
	}
	r.Get("/login.html", redirectHome)
	r.Get("/register.html", redirectHome)
	r.Get("/logout", p.handleLogout)
	r.Post("/register", p.handleRegister)
	r.Post("/login", p.handleLogin)

	if p.metrics != nil {
		r.Method(http.MethodGet, "/metrics", p.metrics.Handler())
	}

	// A known path under the wrong method is just as unknown.
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	plainText(w, http.StatusNotFound, "Not found")
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}
