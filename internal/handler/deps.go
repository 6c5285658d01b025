package handler

import (
	"eventbook/internal/app/store"
	"eventbook/internal/configs"
)

// AppDeps bundles the dependencies shared by the mock API handlers.
type AppDeps struct {
	Config *configs.AppConfig
	Store  *store.Store
}
