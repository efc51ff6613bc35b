package api

import "encoding/json"

// Request represents an incoming request over the UNIX socket.
type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Response represents a response to a request.
type Response struct {
	Ok   bool        `json:"ok"`
	Err  string      `json:"err,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// SpawnRequest is the data for a spawn action. Zero values defer to the
// server's configured defaults.
type SpawnRequest struct {
	WorkingDir string `json:"working_dir,omitempty"`
	Cols       uint16 `json:"cols,omitempty"`
	Rows       uint16 `json:"rows,omitempty"`
}

// SpawnResponse is the data returned from a spawn action.
type SpawnResponse struct {
	ID string `json:"id"`
}

// WriteRequest is the data for a write action. Data is sent to the
// session verbatim.
type WriteRequest struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

// ReadRequest is the data for a read action.
type ReadRequest struct {
	ID string `json:"id"`
}

// ReadResponse carries the output drained from a session.
type ReadResponse struct {
	Data string `json:"data"`
}

// ResizeRequest is the data for a resize action.
type ResizeRequest struct {
	ID   string `json:"id"`
	Cols uint16 `json:"cols"`
	Rows uint16 `json:"rows"`
}

// KillRequest is the data for a kill action.
type KillRequest struct {
	ID string `json:"id"`
}

// ListResponse is the data returned from a list action.
type ListResponse struct {
	Sessions []SessionInfo `json:"sessions"`
	Count    int           `json:"count"`
}

// SessionInfo contains information about a session.
type SessionInfo struct {
	ID         string `json:"id"`
	Shell      string `json:"shell"`
	WorkingDir string `json:"working_dir"`
	Cols       uint16 `json:"cols"`
	Rows       uint16 `json:"rows"`
	Running    bool   `json:"running"`
}
