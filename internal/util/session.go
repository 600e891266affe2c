package util

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-ID"

// SessionID returns the caller's session id, minting one when the header
// is absent. The minted id is echoed back on the response so the client
// can adopt it.
func SessionID(c *gin.Context) string {
	id := c.GetHeader(SessionHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Header(SessionHeader, id)
	return id
}
