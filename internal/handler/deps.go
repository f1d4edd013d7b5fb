package handler

import (
	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/chat"
	"github.com/gustavoamc/sitem-backend/internal/app/moderation"
	"github.com/gustavoamc/sitem-backend/internal/app/room"
	"github.com/gustavoamc/sitem-backend/internal/app/storage"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/configs"
)

// AppDeps bundles the constructed components the handlers depend on.
type AppDeps struct {
	Config     *configs.AppConfig
	Store      store.Store
	Guard      *auth.Guard
	Rooms      *room.Service
	Moderation *moderation.Service
	Gateway    *chat.Gateway
	Avatars    storage.ObjectStore
}
