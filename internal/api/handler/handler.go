// Package handler wires the HTTP surface to the hub: identity minting,
// the websocket upgrade and the liveness endpoint.
package handler

import (
	"pairgo/backend/internal/chathub"
	"pairgo/backend/internal/config"
)

// Handler carries the hub reference and the process configuration.
type Handler struct {
	Hub *chathub.ManagerService
	Cfg config.Config
}

func NewHandler(hub *chathub.ManagerService, cfg config.Config) *Handler {
	return &Handler{Hub: hub, Cfg: cfg}
}
