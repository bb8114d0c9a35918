package v1

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fabrica-tour/api/internal/api/middleware"
	"github.com/fabrica-tour/api/internal/domain"
)


type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	userID  uint
	groupID *uint
}

type feedEvent struct {
	Type    string       `json:"type"`
	Message string       `json:"message,omitempty"`
	Post    *domain.Post `json:"post,omitempty"`
}

// FeedHandler pushes feed events to connected clients. It implements
// service.FeedNotifier so the post service and the scheduler can fan out
// without knowing about websockets.
type FeedHandler struct {
	uSvc     UserService
	upgrader websocket.Upgrader

	clients      map[*feedClient]bool
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *feedClient
	unregister   chan *feedClient
}

// NewFeedHandler accepts websocket upgrades from the same origins the CORS
// layer accepts.
func NewFeedHandler(uSvc UserService, allowedDomains []string) *FeedHandler {
	return &FeedHandler{
		uSvc: uSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(r.Header.Get("Origin"), allowedDomains)
			},
		},
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

func (h *FeedHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = true
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// PostPublished notifies connected clients about a newly published post.
// Group-restricted posts only reach members of those groups.
func (h *FeedHandler) PostPublished(post domain.Post) {
	payload, err := json.Marshal(feedEvent{
		Type: "post_published",
		Post: &post,
	})
	if err != nil {
		zap.L().Error("failed to marshal feed event", zap.Error(err))

		return
	}

	if len(post.GroupIDs) == 0 {
		h.broadcast <- payload

		return
	}

	allowed := make(map[uint]bool, len(post.GroupIDs))
	for _, id := range post.GroupIDs {
		allowed[id] = true
	}

	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	for client := range h.clients {
		if client.groupID == nil || !allowed[*client.groupID] {
			continue
		}
		select {
		case client.send <- payload:
		default:
		}
	}
}

func (h *FeedHandler) Notify(event, message string) {
	payload, err := json.Marshal(feedEvent{
		Type:    event,
		Message: message,
	})
	if err != nil {
		zap.L().Error("failed to marshal feed event", zap.Error(err))

		return
	}

	h.broadcast <- payload
}

// HandleWebSocket godoc
// @Summary      Establish a WebSocket connection for feed events
// @Tags         feed
// @Produce      json
// @Success      101  {string}  string "Switching Protocols to WebSocket"
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /feed/ws [get]
// @Security BearerAuth
func (h *FeedHandler) HandleWebSocket(c *gin.Context) {
	user, respErr := getUserFromContext(c, h.uSvc)
	if respErr != nil {
		c.AbortWithStatus(respErr.StatusCode)

		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  user.ID,
		groupID: user.GroupID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump only drains the connection. The feed is one-way; clients never
// send application messages.
func (c *feedClient) readPump(h *FeedHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("websocket read error", zap.Error(err))
			}

			break
		}
	}
}
