//go:build !windows

package api

import (
	"encoding/json"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PiranhaCodes/termbridge/internal/pty"
)

type testClient struct {
	enc *json.Encoder
	dec *json.Decoder
}

func (c *testClient) call(t *testing.T, action string, data interface{}) Response {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, c.enc.Encode(Request{Action: action, Data: raw}))

	var resp Response
	require.NoError(t, c.dec.Decode(&resp))
	return resp
}

func decodeData(t *testing.T, resp Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func startTestServer(t *testing.T) *testClient {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "ctl.sock")
	manager := pty.NewManager()
	srv := NewServer(socketPath, manager, Defaults{Shell: "/bin/cat"}, zap.NewNop())

	go srv.Start()
	t.Cleanup(func() {
		manager.Shutdown()
		srv.Stop()
	})

	var conn net.Conn
	require.Eventually(t, func() bool {
		var err error
		conn, err = net.Dial("unix", socketPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "server socket never came up")
	t.Cleanup(func() { conn.Close() })

	return &testClient{enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
}

func TestSpawnWriteReadKill(t *testing.T) {
	c := startTestServer(t)

	resp := c.call(t, "spawn", SpawnRequest{WorkingDir: t.TempDir()})
	require.True(t, resp.Ok, "spawn failed: %s", resp.Err)

	var spawned SpawnResponse
	decodeData(t, resp, &spawned)
	require.NotEmpty(t, spawned.ID)

	resp = c.call(t, "write", WriteRequest{ID: spawned.ID, Data: "ping\n"})
	require.True(t, resp.Ok, "write failed: %s", resp.Err)

	var collected strings.Builder
	deadline := time.Now().Add(10 * time.Second)
	for !strings.Contains(collected.String(), "ping") {
		if time.Now().After(deadline) {
			t.Fatalf("session output never echoed; collected %q", collected.String())
		}
		resp := c.call(t, "read", ReadRequest{ID: spawned.ID})
		require.True(t, resp.Ok, "read failed: %s", resp.Err)
		var read ReadResponse
		decodeData(t, resp, &read)
		collected.WriteString(read.Data)
		time.Sleep(50 * time.Millisecond)
	}

	resp = c.call(t, "kill", KillRequest{ID: spawned.ID})
	assert.True(t, resp.Ok, "kill failed: %s", resp.Err)

	resp = c.call(t, "write", WriteRequest{ID: spawned.ID, Data: "x"})
	assert.False(t, resp.Ok)
	assert.Equal(t, "session not found", resp.Err)
}

func TestSpawnAppliesSizeAndDefaults(t *testing.T) {
	c := startTestServer(t)

	resp := c.call(t, "spawn", SpawnRequest{Cols: 120, Rows: 40})
	require.True(t, resp.Ok, "spawn failed: %s", resp.Err)
	var spawned SpawnResponse
	decodeData(t, resp, &spawned)

	resp = c.call(t, "list", struct{}{})
	require.True(t, resp.Ok)
	var list ListResponse
	decodeData(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, spawned.ID, list.Sessions[0].ID)
	assert.Equal(t, uint16(120), list.Sessions[0].Cols)
	assert.Equal(t, uint16(40), list.Sessions[0].Rows)
	assert.Equal(t, "/bin/cat", list.Sessions[0].Shell)
	assert.True(t, list.Sessions[0].Running)
}

func TestResizeAction(t *testing.T) {
	c := startTestServer(t)

	resp := c.call(t, "spawn", SpawnRequest{})
	require.True(t, resp.Ok, "spawn failed: %s", resp.Err)
	var spawned SpawnResponse
	decodeData(t, resp, &spawned)

	resp = c.call(t, "resize", ResizeRequest{ID: spawned.ID, Cols: 100, Rows: 30})
	require.True(t, resp.Ok, "resize failed: %s", resp.Err)

	resp = c.call(t, "resize", ResizeRequest{ID: spawned.ID})
	assert.False(t, resp.Ok)

	resp = c.call(t, "list", struct{}{})
	require.True(t, resp.Ok)
	var list ListResponse
	decodeData(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, uint16(100), list.Sessions[0].Cols)
	assert.Equal(t, uint16(30), list.Sessions[0].Rows)
}

func TestUnknownActionAndMissingID(t *testing.T) {
	c := startTestServer(t)

	resp := c.call(t, "dance", struct{}{})
	assert.False(t, resp.Ok)
	assert.Contains(t, resp.Err, "unknown action")

	resp = c.call(t, "write", WriteRequest{Data: "x"})
	assert.False(t, resp.Ok)
	assert.Equal(t, "session ID is required", resp.Err)
}
