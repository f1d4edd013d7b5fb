/*
Package handler provides the HTTP handlers and routing setup for the Sitem backend.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/pkg/limiter"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5
	WSRate    = 0.5
	WSBurst   = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware. Role gates run per route group: admin routes
// require admin or root, promote/demote require root, everything else under
// /api requires any authenticated, unbanned account.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WSRate), WSBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Sitem Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	anyRole := deps.Guard.RequireStatus(store.RoleUser, store.RoleAdmin, store.RoleRoot)
	adminOrRoot := deps.Guard.RequireStatus(store.RoleAdmin, store.RoleRoot)
	rootOnly := deps.Guard.RequireStatus(store.RoleRoot)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(authR chi.Router) {
			authR.Use(authLimiter.Middleware)
			authR.Post("/register", HandleRegister(deps))
			authR.Post("/login", HandleLogin(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Use(anyRole)
			user.Get("/", HandleGetProfile(deps))
			user.Put("/edit", HandleEditProfile(deps))
			user.Post("/change-password", HandleChangePassword(deps))
			user.Post("/avatar/presign", HandleAvatarUpload(deps))
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Group(func(root chi.Router) {
				root.Use(rootOnly)
				root.Patch("/promote/{userId}", HandlePromote(deps))
				root.Patch("/demote/{userId}", HandleDemote(deps))
			})

			admin.Group(func(mod chi.Router) {
				mod.Use(adminOrRoot)
				mod.Get("/users", HandleListUsers(deps))
				mod.Patch("/ban/{userId}", HandleBan(deps))
				mod.Patch("/unban/{userId}", HandleUnban(deps))
			})
		})

		api.Route("/room", func(rooms chi.Router) {
			rooms.Use(anyRole)
			rooms.Post("/", HandleCreateRoom(deps))
			rooms.Get("/", HandleListRooms(deps))
			rooms.Post("/join/{roomId}", HandleJoinRoom(deps))
			rooms.Post("/leave/{roomId}", HandleLeaveRoom(deps))
			rooms.Post("/remove", HandleRemoveParticipant(deps))
			rooms.Get("/{roomId}", HandleGetRoom(deps))
			rooms.Patch("/{roomId}", HandleEditRoom(deps))
			rooms.Delete("/{roomId}", HandleDeleteRoom(deps))
		})
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, wsLimiter, deps))

	return r
}
