package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gustavoamc/sitem-backend/internal/app/chat"
	"github.com/gustavoamc/sitem-backend/internal/pkg/errs"
	"github.com/gustavoamc/sitem-backend/internal/pkg/limiter"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
	"github.com/gustavoamc/sitem-backend/internal/pkg/resp"
)

// HandleWebSocket authenticates the handshake and hands the connection over
// to the realtime gateway. The session token travels as a query parameter
// because browser WebSocket clients cannot set an Authorization header.
// Rejections happen before the upgrade so the client gets a plain HTTP error.
func HandleWebSocket(upgrader websocket.Upgrader, wsLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !wsLimiter.GetLimiter(limiter.ClientIP(r)).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		user, customErr := deps.Guard.ResolveIdentity(r.Context(), r.URL.Query().Get("token"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			logx.Warn("WebSocket upgrade failed.", "error", err.Error())
			return
		}

		client := chat.NewClient(deps.Gateway, conn, chat.IdentityFromUser(user))
		deps.Gateway.Register(client)

		logx.Info("WebSocket client connected.", "user_id", user.ID.String())

		go client.WritePump()
		client.ReadPump()
	}
}
