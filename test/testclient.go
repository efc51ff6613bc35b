// Manual smoke-test client for a running termbridge daemon: spawns a
// session over the control socket, runs a few commands, polls their
// output, lists sessions, and kills the session.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketPath = "~/.termbridge/termbridge.sock"

// expandPath expands the tilde (~) character to the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		if path[1] == '/' || path[1] == '\\' {
			return filepath.Join(homeDir, path[2:]), nil
		}
	}

	return path, nil
}

type Request struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Response struct {
	Ok   bool            `json:"ok"`
	Err  string          `json:"err,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type SpawnResponse struct {
	ID string `json:"id"`
}

type ReadResponse struct {
	Data string `json:"data"`
}

type ListResponse struct {
	Sessions []SessionInfo `json:"sessions"`
	Count    int           `json:"count"`
}

type SessionInfo struct {
	ID      string `json:"id"`
	Shell   string `json:"shell"`
	Running bool   `json:"running"`
}

type client struct {
	enc *json.Encoder
	dec *json.Decoder
}

func (c *client) call(action string, data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := c.enc.Encode(Request{Action: action, Data: raw}); err != nil {
		return err
	}

	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("%s failed: %s", action, resp.Err)
	}
	if out != nil && len(resp.Data) > 0 {
		return json.Unmarshal(resp.Data, out)
	}
	return nil
}

func main() {
	log.Println("[TestClient] Starting test client...")

	expandedSocketPath, err := expandPath(socketPath)
	if err != nil {
		log.Fatalf("[TestClient] Failed to expand socket path: %v", err)
	}

	conn, err := net.Dial("unix", expandedSocketPath)
	if err != nil {
		log.Fatalf("[TestClient] Failed to connect: %v", err)
	}
	defer conn.Close()

	c := &client{enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
	log.Println("[TestClient] Connected to server")

	var spawned SpawnResponse
	if err := c.call("spawn", map[string]interface{}{}, &spawned); err != nil {
		log.Fatalf("[TestClient] Failed to spawn session: %v", err)
	}
	log.Printf("[TestClient] Spawned session: %s", spawned.ID)

	commands := []string{
		"echo 'Hello from PTY!'\n",
		"pwd\n",
		"whoami\n",
		"echo 'Test complete'\n",
	}

	for i, cmd := range commands {
		log.Printf("[TestClient] Sending command %d: %q", i+1, cmd)
		if err := c.call("write", map[string]string{"id": spawned.ID, "data": cmd}, nil); err != nil {
			log.Printf("[TestClient] Failed to write: %v", err)
			continue
		}

		time.Sleep(300 * time.Millisecond)

		var read ReadResponse
		if err := c.call("read", map[string]string{"id": spawned.ID}, &read); err != nil {
			log.Printf("[TestClient] Failed to read: %v", err)
			continue
		}
		fmt.Print(read.Data)
	}

	log.Println("[TestClient] Listing sessions...")
	var list ListResponse
	if err := c.call("list", map[string]interface{}{}, &list); err != nil {
		log.Printf("[TestClient] Failed to list sessions: %v", err)
	} else {
		fmt.Printf("[TestClient] Active sessions: %d\n", list.Count)
		for _, sess := range list.Sessions {
			fmt.Printf("  - %s (%s, running=%v)\n", sess.ID, sess.Shell, sess.Running)
		}
	}

	log.Printf("[TestClient] Killing session %s...", spawned.ID)
	if err := c.call("kill", map[string]string{"id": spawned.ID}, nil); err != nil {
		log.Printf("[TestClient] Failed to kill session: %v", err)
	} else {
		log.Println("[TestClient] Session killed successfully")
	}

	log.Println("[TestClient] Test client exiting")
}
