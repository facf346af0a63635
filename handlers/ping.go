package handlers

import (
	"net/http"

	"github.com/akinalp/mqvi-bans/config"
	"github.com/akinalp/mqvi-bans/pkg"
)

// PingHandler, GET /api/ping: sağlık kontrolü ve instance bilgisi.
type PingHandler struct {
	instance config.InstanceConfig
}

// NewPingHandler, constructor.
func NewPingHandler(instance config.InstanceConfig) *PingHandler {
	return &PingHandler{instance: instance}
}

type pingResponse struct {
	Ping     string                `json:"ping"`
	Instance config.InstanceConfig `json:"instance"`
}

// Ping, auth gerektirmez.
func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, pingResponse{Ping: "pong!", Instance: h.instance})
}
