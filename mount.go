package neon

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/livefir/neon/internal/diff"
)

// UpdateResponse is sent to the preview client after every message
type UpdateResponse struct {
	HTML  string            `json:"html"`
	Ops   []diff.Change     `json:"ops"`
	Stats *diff.Stats       `json:"stats,omitempty"`
	Meta  *ResponseMetadata `json:"meta,omitempty"`
}

// ResponseMetadata contains information about the action that generated the update
type ResponseMetadata struct {
	Success bool              `json:"success"` // true if the action was applied
	Errors  map[string]string `json:"errors,omitempty"`
	Action  string            `json:"action,omitempty"`
}

// Factory creates the component served to one client.
type Factory func() (*Component, error)

// Handler creates an http.Handler previewing components made by factory.
// GET serves the rendered markup; a WebSocket connection gets its own
// component, receives its markup and then one update per input message:
//
//	{"action":"input","data":{"key":"name","value":"Bo"}}
func Handler(factory Factory, opts ...Option) http.Handler {
	return &previewHandler{
		factory:  factory,
		config:   newConfig(opts),
		validate: validator.New(),
	}
}

// previewHandler handles both WebSocket and HTTP requests
type previewHandler struct {
	factory  Factory
	config   Config
	validate *validator.Validate
}

func (h *previewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add header to indicate WebSocket availability
	if h.config.WebSocketDisabled {
		w.Header().Set("X-Neon-WebSocket", "disabled")
	} else {
		w.Header().Set("X-Neon-WebSocket", "enabled")
	}

	if websocket.IsWebSocketUpgrade(r) {
		if h.config.WebSocketDisabled {
			http.Error(w, "WebSocket is disabled on this endpoint", http.StatusBadRequest)
			return
		}
		h.handleWebSocket(w, r)
		return
	}
	h.handleHTTP(w, r)
}

func (h *previewHandler) handleHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		return
	case http.MethodGet:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, err := h.factory()
	if err != nil {
		h.config.Logger.Error("failed to create component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer c.Close()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.WriteHTML(w); err != nil {
		h.config.Logger.Error("failed to write markup", "error", err)
	}
}

func (h *previewHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.config.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.config.Logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := h.config.Logger.With("remote", conn.RemoteAddr().String())
	log.Info("client connected")

	c, err := h.factory()
	if err != nil {
		log.Error("failed to create component", "error", err)
		return
	}
	defer c.Close()

	var last Report
	c.OnRender(func(rep Report) { last = rep })

	if err := h.send(conn, UpdateResponse{HTML: c.HTML(), Ops: []diff.Change{}}); err != nil {
		log.Error("failed to send initial markup", "error", err)
		return
	}

	// message loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("WebSocket error", "error", err)
			}
			break
		}

		last = Report{}
		response := UpdateResponse{Ops: []diff.Change{}}

		msg, err := parseMessage(data, h.validate)
		if err == nil {
			response.Meta = &ResponseMetadata{Action: msg.Action}
			err = applyMessage(c, msg, h.validate)
		} else {
			response.Meta = &ResponseMetadata{}
		}

		if err != nil {
			h.config.Metrics.IncrementCustomCounter("rejected_messages")
			log.Warn("action rejected", "error", err)
			response.Meta.Errors = errorFields(err)
		} else {
			h.config.Metrics.IncrementCustomCounter("applied_messages")
			response.Meta.Success = true
			if last.Changes != nil {
				response.Ops = last.Changes
			}
			response.Stats = &last.Stats
		}
		response.HTML = c.HTML()

		if err := h.send(conn, response); err != nil {
			log.Error("WebSocket write failed", "error", err)
			break
		}
	}

	log.Info("client disconnected")
}

func (h *previewHandler) send(conn *websocket.Conn, response UpdateResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, responseBytes)
}
