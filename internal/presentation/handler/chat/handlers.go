package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/guruqool/gurukul/internal/infrastructure/configs"
	"github.com/guruqool/gurukul/internal/infrastructure/json"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/ws"
)

type Handler struct {
	core     *ws.Core
	registry *ws.Registry
	relayCfg configs.RelayConfig
	upgrader websocket.Upgrader
	logger   logging.Logger
}

func NewHandler(core *ws.Core, registry *ws.Registry, relayCfg configs.RelayConfig, allowedOrigins []string, logger logging.Logger) *Handler {
	return &Handler{
		core:     core,
		registry: registry,
		relayCfg: relayCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// originChecker mirrors the façade's CORS allow-list for the upgrade
// handshake. Non-browser clients send no Origin and pass through.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[strings.TrimSuffix(origin, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		_, ok := allowed[strings.TrimSuffix(origin, "/")]
		return ok
	}
}

// ServeWS godoc
// @Summary      Open the realtime chat channel
// @Description  Upgrades to a WebSocket carrying joinRoom/sendMessage events in and receiveMessage events out
// @Tags         chat
// @Success      101 "Switching Protocols"
// @Failure      403 {object} map[string]interface{} "Origin not allowed"
// @Router       /ws [get]
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), h.relayCfg.ClientBuffer, h.relayCfg.MaxMessageBytes)

	h.core.Register() <- client

	go client.WriteMessage()
	go client.ReadMessage(h.core)
}

// GetPresenceHandler godoc
// @Summary      Room presence
// @Description  Returns how many connections are currently joined to a chat room
// @Tags         chat
// @Produce      json
// @Param        chatId path string true "Chat ID"
// @Success      200 {object} presenceResponse
// @Failure      400 {object} map[string]interface{} "Missing chat ID"
// @Router       /chat/{chatId}/presence [get]
func (h *Handler) GetPresenceHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")
	if chatID == "" {
		json.WriteValidationError(w, errors.New("chat ID is missing"))
		return
	}

	json.Write(w, http.StatusOK, presenceResponse{
		ChatID:  chatID,
		Members: h.registry.Members(chatID),
	})
}
