package stream

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeSSE holds the connection open and relays hub events in
// text/event-stream framing until the client goes away.
func (h *Hub) ServeSSE(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	cl := &client{send: make(chan []byte, 64), kind: transportSSE}
	h.register <- cl

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			h.unregister <- cl
			return
		case msg, ok := <-cl.send:
			if !ok {
				// Dropped by the hub.
				return
			}
			if _, err := c.Writer.Write(msg); err != nil {
				h.unregister <- cl
				return
			}
			flusher.Flush()
		}
	}
}
