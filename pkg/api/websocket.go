package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/command"
)

// WebSocket message types.
const (
	WSTypeCommand  = "command"
	WSTypePing     = "ping"
	WSTypePong     = "pong"
	WSTypeState    = "state"
	WSTypeEvent    = "event"
	WSTypeResponse = "response"
	WSTypeError    = "error"

	wsSendBufferSize = 64
	wsMaxMessageSize = 64 * 1024
	wsPingInterval   = 30 * time.Second
	wsPongWait       = 60 * time.Second
	wsCommandTimeout = 10 * time.Second
)

// WSMessage is a message sent to or from a websocket client. Clients send
// {"type":"command","id":"1","command":"device_toggle","args":{"power":true}}.
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Command   string          `json:"command,omitempty"`
	Args      json.RawMessage `json:"args,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Payload   any             `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by the CORS middleware
		return true
	},
}

// WSHandler serves the websocket command channel. Each client receives the
// current projection on connect and every command event afterwards.
type WSHandler struct {
	dispatcher  *command.Dispatcher
	broadcaster *command.Broadcaster
}

// NewWSHandler creates a websocket handler.
func NewWSHandler(dispatcher *command.Dispatcher, broadcaster *command.Broadcaster) *WSHandler {
	return &WSHandler{dispatcher: dispatcher, broadcaster: broadcaster}
}

type wsClient struct {
	conn       *websocket.Conn
	dispatcher *command.Dispatcher
	send       chan []byte
	done       chan struct{}
}

// Serve handles GET /ws
// @Summary      Websocket command channel
// @Description  Pushes projections and command events; accepts command messages
// @Tags         events
// @Success      101  {string}  string  "Switching protocols"
// @Router       /ws [get]
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := &wsClient{
		conn:       conn,
		dispatcher: h.dispatcher,
		send:       make(chan []byte, wsSendBufferSize),
		done:       make(chan struct{}),
	}

	events := h.broadcaster.Subscribe()
	log.Debug().Str("client_ip", c.ClientIP()).Msg("Websocket client connected")

	go client.writePump(events)
	client.sendMessage(WSMessage{Type: WSTypeState, Payload: h.dispatcher.Surface().Get()})

	client.readPump()

	close(client.done)
	h.broadcaster.Unsubscribe(events)
	log.Debug().Str("client_ip", c.ClientIP()).Msg("Websocket client disconnected")
}

func (c *wsClient) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(wsMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Websocket read error")
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		c.handleMessage(data)
	}
}

func (c *wsClient) writePump(events <-chan command.Event) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) bool {
		_ = c.conn.SetWriteDeadline(time.Now().Add(wsPongWait))
		return c.conn.WriteMessage(kind, data) == nil
	}

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return

		case data := <-c.send:
			if !write(websocket.TextMessage, data) {
				return
			}

		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := encode(WSMessage{Type: WSTypeEvent, Payload: ev})
			if err != nil {
				continue
			}
			if !write(websocket.TextMessage, data) {
				return
			}

		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *wsClient) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("", "invalid JSON message")
		return
	}

	switch msg.Type {
	case WSTypeCommand:
		ctx, cancel := context.WithTimeout(context.Background(), wsCommandTimeout)
		defer cancel()

		result, err := c.dispatcher.Dispatch(ctx, msg.Command, msg.Args)
		if err != nil {
			c.sendError(msg.ID, errorMessage(err))
			return
		}
		c.sendMessage(WSMessage{Type: WSTypeResponse, ID: msg.ID, Command: msg.Command, Payload: result})
	case WSTypePing:
		c.sendMessage(WSMessage{Type: WSTypePong, ID: msg.ID})
	default:
		c.sendError(msg.ID, "unknown message type: "+msg.Type)
	}
}

func (c *wsClient) sendMessage(msg WSMessage) {
	data, err := encode(msg)
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	case <-c.done:
	default:
		// Client buffer full, skip
	}
}

func (c *wsClient) sendError(id, message string) {
	c.sendMessage(WSMessage{Type: WSTypeError, ID: id, Payload: map[string]string{"message": message}})
}

func encode(msg WSMessage) ([]byte, error) {
	msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return json.Marshal(msg)
}

func errorMessage(err error) string {
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Message
	}
	return err.Error()
}
