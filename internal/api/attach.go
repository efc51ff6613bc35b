package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/PiranhaCodes/termbridge/internal/pty"
)

// AttachHandler streams a session over a websocket: binary frames carry
// raw pty output and input, text frames may carry JSON control messages.
// The handler is the session's single output consumer; attaching two
// clients to one session would interleave chunks.
type AttachHandler struct {
	Manager *pty.Manager
	Logger  *zap.Logger
}

// controlMessage is JSON-encoded in text frames to carry resize updates.
type controlMessage struct {
	Type string `json:"type"`
	Cols uint16 `json:"cols"`
	Rows uint16 `json:"rows"`
}

func (h *AttachHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/attach/")
	if id == "" || id == r.URL.Path {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	sess := h.Manager.Get(id)
	if sess == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logger := h.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("client attached", zap.String("id", id))

	done := make(chan struct{})
	defer close(done)

	go func() {
		output := sess.Output()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case chunk := <-output:
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
					return
				}
			case <-ticker.C:
				// The output channel stays open across session death, so
				// poll the flag to release the client once the child ends.
				if !sess.IsRunning() {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
						time.Now().Add(time.Second))
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.TextMessage:
			if control, ok := parseControlMessage(msg); ok {
				if err := sess.Resize(control.Cols, control.Rows); err != nil {
					return
				}
				continue
			}
			if err := sess.Write(msg); err != nil {
				return
			}
		case websocket.BinaryMessage:
			if err := sess.Write(msg); err != nil {
				return
			}
		}
	}
}

func parseControlMessage(data []byte) (controlMessage, bool) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return controlMessage{}, false
	}
	if msg.Type != "resize" || msg.Cols == 0 || msg.Rows == 0 {
		return controlMessage{}, false
	}
	return msg, true
}
