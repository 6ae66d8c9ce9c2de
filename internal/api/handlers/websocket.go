package handlers

import (
	"net/http"

	"voting-registry/internal/api/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens in the CORS middleware
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// EventStream upgrades the connection and attaches it to the event hub,
// streaming registry events until the client disconnects.
func EventStream(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			services.GetLogger().Error("WebSocket upgrade failed: %v", err)
			return
		}

		services.GetLogger().Info("WebSocket connection established - client_ip: %s", getClientIP(c))
		services.EventHub().Serve(conn)
		services.GetLogger().Info("WebSocket client disconnected")
	}
}
