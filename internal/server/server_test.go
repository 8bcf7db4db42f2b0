package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delve-server/pkg/api"
)

func TestGatewayServesTheOpeningSnapshot(t *testing.T) {
	ts, service := newGateway(t, true)

	conn := dialWS(t, wsURL(t, ts.URL, ""))
	snap := readSnapshot(t, conn)

	assert.Equal(t, "UPDATE", snap.Type)
	assert.Equal(t, api.StatePlaying, snap.State)
	assert.Equal(t, string(service.Main().PlayerID), snap.PlayerID)

	require.NotNil(t, snap.Grid)
	assert.Greater(t, snap.Grid.Width, 0)
	assert.Greater(t, snap.Grid.Height, 0)

	assert.NotEmpty(t, snap.Tiles, "boot FOV should have explored the first room")
	assert.NotEmpty(t, snap.Messages, "the welcome line rides the first snapshot")

	found := false
	for _, e := range snap.Entities {
		if e.ID == snap.PlayerID {
			found = true
		}
	}
	assert.True(t, found, "the player is always in its own sight")
}

func TestGatewayAdvancesTheClockOnCommands(t *testing.T) {
	ts, _ := newGateway(t, true)

	conn := dialWS(t, wsURL(t, ts.URL, ""))
	first := readSnapshot(t, conn)

	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "WAIT"}))

	deadline := time.Now().Add(5 * time.Second)
	for {
		require.True(t, time.Now().Before(deadline), "clock never advanced past tick %d", first.Tick)
		snap := readSnapshot(t, conn)
		if snap.Tick > first.Tick {
			assert.Equal(t, api.StatePlaying, snap.State)
			break
		}
	}
}

func TestGatewayRejectsUnknownPlayers(t *testing.T) {
	ts, _ := newGateway(t, true)

	conn := dialWS(t, wsURL(t, ts.URL, "ghost"))

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation),
		"expected a policy violation close, got %v", err)
	assert.Contains(t, err.Error(), "unknown player")
}

func TestGatewayNewestConnectionWins(t *testing.T) {
	ts, _ := newGateway(t, true)

	first := dialWS(t, wsURL(t, ts.URL, ""))
	readSnapshot(t, first)

	second := dialWS(t, wsURL(t, ts.URL, ""))
	readSnapshot(t, second)

	// The first connection drains any buffered frames, then hears the
	// replacement close.
	for {
		_, _, err := first.ReadMessage()
		if err == nil {
			continue
		}
		assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway),
			"expected a going-away close, got %v", err)
		break
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newGateway(t, false)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVersionEndpoint(t *testing.T) {
	ts, _ := newGateway(t, false)

	resp, err := http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	var info map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "dev", info["Version"], "local builds report the dev version")
}

func TestDebugStateSummarizesInstances(t *testing.T) {
	ts, service := newGateway(t, false)

	resp, err := http.Get(ts.URL + "/debug/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)

	assert.Equal(t, string(service.Main().PlayerID), rows[0]["player"])
	assert.Greater(t, rows[0]["entities"].(float64), float64(1))
	assert.Equal(t, float64(1), rows[0]["depth"])
}

func TestDebugQueueListsPendingTurns(t *testing.T) {
	ts, service := newGateway(t, false)

	resp, err := http.Get(ts.URL + "/debug/queue")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.NotEmpty(t, rows, "every boot actor is scheduled at tick zero")

	// The player spawned first, so it heads the queue.
	assert.Equal(t, string(service.Main().PlayerID), rows[0]["entity_id"])
	assert.Equal(t, float64(0), rows[0]["due_tick"])
}

func TestDebugEntitiesDumpsTheArena(t *testing.T) {
	ts, service := newGateway(t, false)

	resp, err := http.Get(ts.URL + "/debug/entities")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Len(t, rows, len(service.Main().World.All()))
}

func TestDebugRejectsUnknownInstances(t *testing.T) {
	ts, _ := newGateway(t, false)

	for _, path := range []string{"/debug/entities?instance=42", "/debug/queue?instance=42", "/debug/queue?instance=junk"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}
