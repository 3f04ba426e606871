package hub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"chatrelay/internal/common"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile clients send no Origin header; browser origins are
		// enforced at the edge.
		return true
	},
}

// ServeWS authenticates and upgrades a connection, then hands it to the hub.
// The token comes from the Authorization header or, for clients that cannot
// set headers on the upgrade, a query parameter.
func ServeWS(h *Hub, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			if extracted, err := common.ExtractBearerToken(c.GetHeader("Authorization")); err == nil {
				tokenString = extracted
			}
		}
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, common.Envelope{Success: false, Message: "authorization required"})
			return
		}

		claims, err := common.ValidToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, common.Envelope{Success: false, Message: "invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Warn("websocket upgrade failed")
			return
		}

		client := NewClient(h, conn, claims.UserID)
		h.Register(c.Request.Context(), client)
		client.Run()
	}
}
