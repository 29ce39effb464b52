package handlers

import (
	"go.uber.org/zap"

	"tavolo-order-service/internal/cache"
	"tavolo-order-service/internal/config"
	"tavolo-order-service/internal/queue"
	"tavolo-order-service/internal/session"
	"tavolo-order-service/internal/storage"
	"tavolo-order-service/internal/store"
)

type Handler struct {
	Store    store.Store
	Sessions *session.Store
	Cache    cache.ReportCache
	Logger   *zap.Logger
	Config   config.Config
	Events   *queue.Publisher
	Media    *storage.ObjectStore
}

func zapError(err error) zap.Field {
	return zap.Error(err)
}
