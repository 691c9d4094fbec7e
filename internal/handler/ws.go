package handler

import (
	"log"
	"net/http"
	"strings"

	"deal-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the CRM frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS godoc
// @Summary      Subscribe to live deal events
// @Description  Upgrades to a websocket and joins the caller's user room
// @Tags         events
// @Param        userId  query  string  true  "User ID to subscribe as"
// @Success      101
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) ServeWS(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event hub unavailable"})
		return
	}

	userID := strings.TrimSpace(c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade for user %s: %v", userID, err)
		return
	}

	room := domain.UserRoom(userID)
	h.hub.Join(room, conn)
	defer func() {
		h.hub.Leave(room, conn)
		conn.Close()
	}()

	// Subscribers only listen; the read loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
