// Unit tests for the status server
//
// Copyright (C) 2026  CNCSim Contributors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package statusd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockSource implements StatusSource for testing.
type mockSource struct {
	state string
}

func (m *mockSource) ObjectsList() []string {
	return []string{"engine", "simulation_state", "last_step"}
}

func (m *mockSource) ObjectStatus(name string, attrs []string) map[string]any {
	switch name {
	case "engine":
		return FilterStatus(map[string]any{
			"type":  "removal/box",
			"state": m.EngineState(),
		}, attrs)
	case "simulation_state":
		return FilterStatus(map[string]any{
			"step_count":       uint64(12),
			"elapsed_time":     0.012,
			"remaining_volume": 195000.0,
		}, attrs)
	default:
		return nil
	}
}

func (m *mockSource) EngineState() string {
	if m.state != "" {
		return m.state
	}
	return "ready"
}

func newTestServer() *Server {
	return New(Config{
		Addr:   ":7125",
		Source: &mockSource{},
	})
}

func TestServerInfo(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/server/info", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatal("response missing 'result' field")
	}

	if result["engine_state"] != "ready" {
		t.Errorf("expected engine_state 'ready', got %v", result["engine_state"])
	}
	if result["engine_connected"] != true {
		t.Errorf("expected engine_connected true, got %v", result["engine_connected"])
	}
}

func TestSimulationInfo(t *testing.T) {
	s := New(Config{
		Addr:   ":7125",
		Source: &mockSource{state: "uninitialized"},
	})

	req := httptest.NewRequest("GET", "/simulation/info", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result := resp["result"].(map[string]any)
	if result["state"] != "uninitialized" {
		t.Errorf("expected state 'uninitialized', got %v", result["state"])
	}
	if result["state_message"] != "Simulation is not ready" {
		t.Errorf("unexpected state message: %v", result["state_message"])
	}
}

func TestObjectsList(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/simulation/objects/list", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result := resp["result"].(map[string]any)
	objects, ok := result["objects"].([]any)
	if !ok {
		t.Fatal("result missing 'objects' field")
	}
	if len(objects) != 3 {
		t.Errorf("expected 3 objects, got %d", len(objects))
	}
}

func TestObjectsQuery(t *testing.T) {
	s := newTestServer()

	body := bytes.NewBufferString(`{"objects":{"engine":null,"simulation_state":["step_count"]}}`)
	req := httptest.NewRequest("POST", "/simulation/objects/query", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	result := resp["result"].(map[string]any)
	status, ok := result["status"].(map[string]any)
	if !ok {
		t.Fatal("result missing 'status' field")
	}

	engine, ok := status["engine"].(map[string]any)
	if !ok {
		t.Fatal("status missing 'engine'")
	}
	if engine["type"] != "removal/box" {
		t.Errorf("unexpected engine type: %v", engine["type"])
	}

	state, ok := status["simulation_state"].(map[string]any)
	if !ok {
		t.Fatal("status missing 'simulation_state'")
	}
	if _, ok := state["step_count"]; !ok {
		t.Error("filtered query should keep step_count")
	}
	if _, ok := state["remaining_volume"]; ok {
		t.Error("filtered query should drop remaining_volume")
	}
}

func TestJSONRPC(t *testing.T) {
	s := newTestServer()

	testCases := []struct {
		name   string
		method string
		params map[string]any
	}{
		{"server.info", "server.info", nil},
		{"simulation.info", "simulation.info", nil},
		{"simulation.objects.list", "simulation.objects.list", nil},
		{"simulation.objects.query", "simulation.objects.query",
			map[string]any{"objects": map[string]any{"engine": nil}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reqBody := map[string]any{
				"jsonrpc": "2.0",
				"method":  tc.method,
				"id":      1,
			}
			if tc.params != nil {
				reqBody["params"] = tc.params
			}

			bodyBytes, _ := json.Marshal(reqBody)
			req := httptest.NewRequest("POST", "/jsonrpc", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}

			var resp rpcResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("expected jsonrpc '2.0', got %s", resp.JSONRPC)
			}
			if resp.Error != nil {
				t.Errorf("unexpected error: %v", resp.Error)
			}
			if resp.Result == nil {
				t.Error("expected result, got nil")
			}
		})
	}
}

func TestJSONRPCUnknownMethod(t *testing.T) {
	s := newTestServer()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"no.such.method","id":1}`)
	req := httptest.NewRequest("POST", "/jsonrpc", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp rpcResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("unexpected error code: %d", resp.Error.Code)
	}
}

func TestWebSocket(t *testing.T) {
	s := newTestServer()
	s.running.Store(true)

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + server.URL[4:] + "/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect WebSocket: %v", err)
	}
	defer conn.Close()

	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "server.info",
		"id":      1,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(message, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != nil {
		t.Errorf("unexpected error: %v", resp.Error)
	}
	if resp.Result == nil {
		t.Error("expected result, got nil")
	}
}

func TestWebSocketSubscription(t *testing.T) {
	s := New(Config{
		Addr:              ":7125",
		Source:            &mockSource{},
		BroadcastInterval: 50 * time.Millisecond,
	})
	s.running.Store(true)
	go s.broadcastLoop()
	defer s.running.Store(false)

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + server.URL[4:] + "/websocket"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect WebSocket: %v", err)
	}
	defer conn.Close()

	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "simulation.objects.subscribe",
		"params": map[string]any{
			"objects": map[string]any{
				"engine":           nil,
				"simulation_state": []string{"step_count"},
			},
		},
		"id": 1,
	}
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}

	// Initial snapshot
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(message, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	// First broadcast notification
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("no status update received: %v", err)
	}

	var notification map[string]any
	if err := json.Unmarshal(message, &notification); err != nil {
		t.Fatalf("failed to decode notification: %v", err)
	}
	if notification["method"] != "notify_status_update" {
		t.Errorf("expected method 'notify_status_update', got %v", notification["method"])
	}
}

func TestAdapterProviders(t *testing.T) {
	a := NewAdapter()
	a.RegisterProvider("engine", func(attrs []string) map[string]any {
		return FilterStatus(map[string]any{"type": "removal/box", "state": "ready"}, attrs)
	})

	list := a.ObjectsList()
	if len(list) != 1 || list[0] != "engine" {
		t.Errorf("unexpected objects list: %v", list)
	}

	status := a.ObjectStatus("engine", []string{"type"})
	if status["type"] != "removal/box" {
		t.Errorf("unexpected type: %v", status["type"])
	}
	if _, ok := status["state"]; ok {
		t.Error("filter should drop state")
	}

	if a.ObjectStatus("unknown", nil) != nil {
		t.Error("unknown object should return nil")
	}

	if a.EngineState() != "uninitialized" {
		t.Errorf("default state should be uninitialized, got %s", a.EngineState())
	}
	a.SetEngineStateFunc(func() string { return "ready" })
	if a.EngineState() != "ready" {
		t.Errorf("expected ready, got %s", a.EngineState())
	}

	a.UnregisterProvider("engine")
	if len(a.ObjectsList()) != 0 {
		t.Error("provider should be removed")
	}
}
