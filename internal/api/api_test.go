package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"github.com/splitsync/splitsync/internal/auth"
	"github.com/splitsync/splitsync/internal/config"
	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/service"
	"github.com/splitsync/splitsync/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	hub    *events.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitsync-api-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Config{Env: "test", RateRPS: 1000}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	hub := events.NewHub()

	router := NewRouter(Deps{
		Cfg:         cfg,
		JWT:         jwtManager,
		Hub:         hub,
		Auth:        service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store),
		Expenses:    service.NewExpenseService(store, hub),
		Groups:      service.NewGroupService(store),
		Balances:    service.NewBalanceService(store),
		Settlements: service.NewSettlementService(store, hub),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, hub: hub}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, env.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var e envelope
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return resp, e
}

// register signs up a user and returns its ID and token.
func (env *testEnv) register(t *testing.T, name string) (string, string) {
	t.Helper()

	resp, e := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    name + "@example.com",
		"name":     name,
		"password": "correct-horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Register %s: expected 201, got %d (%s)", name, resp.StatusCode, e.Message)
	}

	var data struct {
		User  struct{ ID string }
		Token string
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("Failed to decode auth response: %v", err)
	}
	return data.User.ID, data.Token
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("register then login", func(t *testing.T) {
		env.register(t, "alice")

		resp, e := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct-horse",
		})
		if resp.StatusCode != http.StatusOK || !e.Success {
			t.Fatalf("Expected successful login, got %d (%s)", resp.StatusCode, e.Message)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email":    "alice@example.com",
			"name":     "alice2",
			"password": "correct-horse",
		})
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("protected route requires token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/users", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestExpenseAndBalanceFlow(t *testing.T) {
	env := newTestEnv(t)

	aliceID, aliceToken := env.register(t, "alice")
	bobID, bobToken := env.register(t, "bob")
	carolID, _ := env.register(t, "carol")

	t.Run("create expense", func(t *testing.T) {
		resp, e := env.do(t, http.MethodPost, "/api/v1/expenses", aliceToken, map[string]interface{}{
			"description":  "Dinner",
			"amount":       90.00,
			"paidBy":       aliceID,
			"participants": []string{aliceID, bobID, carolID},
			"splitType":    "equal",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d (%s)", resp.StatusCode, e.Message)
		}
	})

	t.Run("malformed expense rejected", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/expenses", aliceToken, map[string]interface{}{
			"description":  "Broken",
			"amount":       -5,
			"paidBy":       aliceID,
			"participants": []string{aliceID},
			"splitType":    "equal",
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("percentage preview", func(t *testing.T) {
		resp, e := env.do(t, http.MethodPost, "/api/v1/expenses/preview", aliceToken, map[string]interface{}{
			"description":  "Rent",
			"amount":       99.99,
			"paidBy":       aliceID,
			"participants": []string{aliceID, bobID, carolID},
			"splitType":    "percentage",
			"percentageSplits": []map[string]interface{}{
				{"userId": aliceID, "percentage": 50},
				{"userId": bobID, "percentage": 25},
				{"userId": carolID, "percentage": 25},
			},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, e.Message)
		}

		var lines []struct {
			UserID string  `json:"userId"`
			Owed   float64 `json:"owed"`
		}
		if err := json.Unmarshal(e.Data, &lines); err != nil {
			t.Fatalf("Failed to decode preview: %v", err)
		}
		want := []float64{50.00, 25.00, 24.99}
		for i, line := range lines {
			if line.Owed != want[i] {
				t.Errorf("Line %d: expected %.2f, got %.2f", i, want[i], line.Owed)
			}
		}
	})

	t.Run("global balances", func(t *testing.T) {
		resp, e := env.do(t, http.MethodGet, "/api/v1/balances", bobToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, e.Message)
		}

		var view struct {
			Balances    map[string]float64 `json:"balances"`
			Settlements []struct {
				From   string  `json:"from"`
				To     string  `json:"to"`
				Amount float64 `json:"amount"`
			} `json:"settlements"`
			Users map[string]struct {
				Name string `json:"name"`
			} `json:"users"`
		}
		if err := json.Unmarshal(e.Data, &view); err != nil {
			t.Fatalf("Failed to decode view: %v", err)
		}

		if view.Balances[aliceID] != 60.00 {
			t.Errorf("Expected alice +60.00, got %v", view.Balances[aliceID])
		}
		if len(view.Settlements) != 2 {
			t.Errorf("Expected 2 transfers, got %d", len(view.Settlements))
		}
		if view.Users[aliceID].Name != "alice" {
			t.Errorf("Expected resolved user name, got %+v", view.Users[aliceID])
		}
	})

	t.Run("personal balances", func(t *testing.T) {
		resp, e := env.do(t, http.MethodGet, "/api/v1/balances?userId="+bobID, bobToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, e.Message)
		}

		var view struct {
			NetBalance float64 `json:"netBalance"`
			Owes       []struct {
				To     string  `json:"to"`
				Amount float64 `json:"amount"`
			} `json:"owes"`
		}
		if err := json.Unmarshal(e.Data, &view); err != nil {
			t.Fatalf("Failed to decode view: %v", err)
		}
		if view.NetBalance != -30.00 {
			t.Errorf("Expected net -30.00, got %v", view.NetBalance)
		}
		if len(view.Owes) != 1 || view.Owes[0].To != aliceID || view.Owes[0].Amount != 30.00 {
			t.Errorf("Expected bob owes alice 30.00, got %+v", view.Owes)
		}
	})

	t.Run("settlement payment clears debt", func(t *testing.T) {
		resp, e := env.do(t, http.MethodPost, "/api/v1/settlements", bobToken, map[string]interface{}{
			"from":   bobID,
			"to":     aliceID,
			"amount": 30.00,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d (%s)", resp.StatusCode, e.Message)
		}

		_, e = env.do(t, http.MethodGet, "/api/v1/balances?userId="+bobID, bobToken, nil)
		var view struct {
			NetBalance float64 `json:"netBalance"`
		}
		if err := json.Unmarshal(e.Data, &view); err != nil {
			t.Fatalf("Failed to decode view: %v", err)
		}
		if view.NetBalance != 0 {
			t.Errorf("Expected net 0 after settling, got %v", view.NetBalance)
		}
	})
}

func TestGroupEndpoints(t *testing.T) {
	env := newTestEnv(t)

	aliceID, aliceToken := env.register(t, "alice")
	bobID, bobToken := env.register(t, "bob")

	var groupID string
	t.Run("create group", func(t *testing.T) {
		resp, e := env.do(t, http.MethodPost, "/api/v1/groups", aliceToken, map[string]interface{}{
			"name":    "Flat",
			"members": []string{bobID},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d (%s)", resp.StatusCode, e.Message)
		}
		var g struct {
			ID      string   `json:"id"`
			Members []string `json:"members"`
		}
		if err := json.Unmarshal(e.Data, &g); err != nil {
			t.Fatalf("Failed to decode group: %v", err)
		}
		groupID = g.ID
		if len(g.Members) != 2 {
			t.Errorf("Expected 2 members (creator included), got %v", g.Members)
		}
	})

	t.Run("member lists group", func(t *testing.T) {
		resp, e := env.do(t, http.MethodGet, "/api/v1/groups", bobToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if e.Count == nil || *e.Count != 1 {
			t.Errorf("Expected count 1, got %v", e.Count)
		}
	})

	t.Run("non-creator cannot delete", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodDelete, "/api/v1/groups/"+groupID, bobToken, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("remove member", func(t *testing.T) {
		resp, e := env.do(t, http.MethodDelete,
			fmt.Sprintf("/api/v1/groups/%s/members/%s", groupID, bobID), aliceToken, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%s)", resp.StatusCode, e.Message)
		}
		var g struct {
			Members []string `json:"members"`
		}
		if err := json.Unmarshal(e.Data, &g); err != nil {
			t.Fatalf("Failed to decode group: %v", err)
		}
		if len(g.Members) != 1 || g.Members[0] != aliceID {
			t.Errorf("Expected only creator remaining, got %v", g.Members)
		}
	})
}

func TestWebsocketPush(t *testing.T) {
	env := newTestEnv(t)

	aliceID, aliceToken := env.register(t, "alice")
	bobID, _ := env.register(t, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + env.server.URL[len("http"):] + "/ws?token=" + aliceToken
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	readEvent := func() map[string]interface{} {
		t.Helper()
		_, b, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		var ev map[string]interface{}
		if err := json.Unmarshal(b, &ev); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		return ev
	}

	greeting := readEvent()
	if greeting["type"] != "connected" {
		t.Fatalf("Expected connected greeting, got %v", greeting)
	}

	resp, e := env.do(t, http.MethodPost, "/api/v1/expenses", aliceToken, map[string]interface{}{
		"description":  "Coffee",
		"amount":       7.50,
		"paidBy":       aliceID,
		"participants": []string{aliceID, bobID},
		"splitType":    "equal",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create expense failed: %d (%s)", resp.StatusCode, e.Message)
	}

	first := readEvent()
	if first["type"] != "expense:new" {
		t.Errorf("Expected expense:new, got %v", first["type"])
	}
	second := readEvent()
	if second["type"] != "balance:updated" {
		t.Errorf("Expected balance:updated, got %v", second["type"])
	}
}
