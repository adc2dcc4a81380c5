package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"justus/auth"
	"justus/contract"
	"justus/internal/ratelimit"
	"justus/observability"
	"justus/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

// Options are the transport settings of the HTTP and socket surfaces.
type Options struct {
	CookieName           string
	CookieSecure         bool
	AllowedOrigins       []string
	ConnectionBufferSize int
	WriteTimeout         time.Duration
	PingInterval         time.Duration
	ReadLimit            int64
	AllowAnonymousSender bool
}

// StoreProbe is what /health asks the store.
type StoreProbe interface {
	CountUsers() (int, error)
	CountMessages() (int, error)
}

type Server struct {
	log      *slog.Logger
	opts     Options
	gate     *auth.Gate
	auth     services.IAuthService
	chat     services.IChatService
	media    services.IMediaService
	hub      contract.IHub
	limiter  *ratelimit.Limiter
	metrics  *observability.Metrics
	probe    StoreProbe
	upgrader websocket.Upgrader
	started  time.Time
}

func NewServer(
	log *slog.Logger,
	opts Options,
	gate *auth.Gate,
	authService services.IAuthService,
	chatService services.IChatService,
	mediaService services.IMediaService,
	hub contract.IHub,
	limiter *ratelimit.Limiter,
	metrics *observability.Metrics,
	probe StoreProbe,
) *Server {
	if opts.ConnectionBufferSize <= 0 {
		opts.ConnectionBufferSize = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	s := &Server{
		log:     log,
		opts:    opts,
		gate:    gate,
		auth:    authService,
		chat:    chatService,
		media:   mediaService,
		hub:     hub,
		limiter: limiter,
		metrics: metrics,
		probe:   probe,
		started: time.Now(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Router mounts every route. Identity is resolved on each request; routes
// needing a caller are grouped behind RequireIdentity.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.gate.Middleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/ws", s.handleSocket)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(auth.RequireIdentity).Get("/users", s.handleUsers)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireIdentity)
		r.Route("/chat", func(r chi.Router) {
			r.Get("/messages", s.handleHistory)
			r.Post("/messages", s.handleSend)
			r.Post("/messages/mark-read", s.handleMarkRead)
			r.Post("/conversation", s.handleConversation)
			r.Get("/search", s.handleSearch)
		})
		r.Route("/media", func(r chi.Router) {
			r.Post("/upload", s.handleUpload)
			r.Get("/file/{id}", s.handleFile)
		})
	})
	return r
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.opts.AllowedOrigins, origin)
}
