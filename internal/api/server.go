// Package api exposes session control over a unix socket and streaming
// attachment over websockets.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/PiranhaCodes/termbridge/internal/pty"
)

// Defaults are applied to spawn requests that omit size or shell.
type Defaults struct {
	Cols  uint16
	Rows  uint16
	Shell string
}

// Server handles UNIX socket connections and session control actions.
type Server struct {
	socketPath string
	manager    *pty.Manager
	defaults   Defaults
	logger     *zap.Logger
	listener   net.Listener
	stopChan   chan struct{}
}

// NewServer creates a new server instance.
func NewServer(socketPath string, manager *pty.Manager, defaults Defaults, logger *zap.Logger) *Server {
	if defaults.Cols == 0 {
		defaults.Cols = pty.DefaultCols
	}
	if defaults.Rows == 0 {
		defaults.Rows = pty.DefaultRows
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		socketPath: socketPath,
		manager:    manager,
		defaults:   defaults,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start begins accepting connections. It blocks until Stop is called or
// the listener fails.
func (s *Server) Start() error {
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}

	s.listener = listener
	s.logger.Info("server listening", zap.String("socket", s.socketPath))

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

// Stop stops the server and closes the listener.
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	s.logger.Info("server stopped")
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) {
				encoder.Encode(Response{Ok: false, Err: "invalid request: " + err.Error()})
			}
			return
		}

		switch req.Action {
		case "spawn":
			s.handleSpawn(req.Data, encoder)
		case "write":
			s.handleWrite(req.Data, encoder)
		case "read":
			s.handleRead(req.Data, encoder)
		case "resize":
			s.handleResize(req.Data, encoder)
		case "kill":
			s.handleKill(req.Data, encoder)
		case "list":
			s.handleList(encoder)
		default:
			encoder.Encode(Response{Ok: false, Err: "unknown action: " + req.Action})
		}
	}
}

func (s *Server) handleSpawn(data json.RawMessage, encoder *json.Encoder) {
	var req SpawnRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			encoder.Encode(Response{Ok: false, Err: "invalid spawn request: " + err.Error()})
			return
		}
	}

	cols, rows := s.defaults.Cols, s.defaults.Rows
	if req.Cols > 0 {
		cols = req.Cols
	}
	if req.Rows > 0 {
		rows = req.Rows
	}

	sess := pty.New().
		WithSize(cols, rows).
		WithLogger(s.logger)
	if req.WorkingDir != "" {
		sess.WithWorkingDirectory(req.WorkingDir)
	}
	if s.defaults.Shell != "" {
		sess.WithShell(s.defaults.Shell)
	}

	if err := sess.Start(); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	id := s.manager.Add(sess)
	s.logger.Info("spawned session",
		zap.String("id", id),
		zap.String("shell", sess.Shell()),
	)

	encoder.Encode(Response{
		Ok:   true,
		Data: SpawnResponse{ID: id},
	})
}

func (s *Server) handleWrite(data json.RawMessage, encoder *json.Encoder) {
	var req WriteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid write request: " + err.Error()})
		return
	}

	sess, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	if err := sess.WriteString(req.Data); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleRead(data json.RawMessage, encoder *json.Encoder) {
	var req ReadRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid read request: " + err.Error()})
		return
	}

	sess, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	encoder.Encode(Response{
		Ok:   true,
		Data: ReadResponse{Data: string(sess.DrainOutput())},
	})
}

func (s *Server) handleResize(data json.RawMessage, encoder *json.Encoder) {
	var req ResizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid resize request: " + err.Error()})
		return
	}

	if req.Cols == 0 || req.Rows == 0 {
		encoder.Encode(Response{Ok: false, Err: "cols and rows must be positive"})
		return
	}

	sess, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	if err := sess.Resize(req.Cols, req.Rows); err != nil {
		encoder.Encode(Response{Ok: false, Err: err.Error()})
		return
	}

	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleKill(data json.RawMessage, encoder *json.Encoder) {
	var req KillRequest
	if err := json.Unmarshal(data, &req); err != nil {
		encoder.Encode(Response{Ok: false, Err: "invalid kill request: " + err.Error()})
		return
	}

	sess, ok := s.lookup(req.ID, encoder)
	if !ok {
		return
	}

	sess.Stop()
	s.manager.Remove(req.ID)
	s.logger.Info("killed session", zap.String("id", req.ID))
	encoder.Encode(Response{Ok: true})
}

func (s *Server) handleList(encoder *json.Encoder) {
	sessions := s.manager.List()
	infos := make([]SessionInfo, 0, len(sessions))
	for id, sess := range sessions {
		cols, rows := sess.Size()
		infos = append(infos, SessionInfo{
			ID:         id,
			Shell:      sess.Shell(),
			WorkingDir: sess.WorkingDirectory(),
			Cols:       cols,
			Rows:       rows,
			Running:    sess.IsRunning(),
		})
	}

	encoder.Encode(Response{
		Ok: true,
		Data: ListResponse{
			Sessions: infos,
			Count:    len(infos),
		},
	})
}

func (s *Server) lookup(id string, encoder *json.Encoder) (*pty.Session, bool) {
	if id == "" {
		encoder.Encode(Response{Ok: false, Err: "session ID is required"})
		return nil, false
	}
	sess := s.manager.Get(id)
	if sess == nil {
		encoder.Encode(Response{Ok: false, Err: "session not found"})
		return nil, false
	}
	return sess, true
}
