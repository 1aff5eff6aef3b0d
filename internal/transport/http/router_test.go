package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/pkg/auth"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*postgres.User
}

func (m *memoryUsers) CreateUser(_ context.Context, username, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return 0, postgres.ErrUsernameTaken
	}
	id := int64(len(m.users) + 1)
	m.users[username] = &postgres.User{ID: id, Username: username, PasswordHash: hash, Rating: 1000}
	return id, nil
}

func (m *memoryUsers) GetUserByUsername(_ context.Context, username string) (*postgres.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, id int64) (*postgres.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetLeaderboard(context.Context, int) ([]postgres.PlayerStats, error) {
	return []postgres.PlayerStats{{Rank: 1, Username: "alice", Rating: 1016}}, nil
}

type memoryGames struct {
	games []postgres.GameRecord
}

func (m *memoryGames) GetGameByID(_ context.Context, id string) (*postgres.GameRecord, error) {
	for i := range m.games {
		if m.games[i].GameID == id {
			return &m.games[i], nil
		}
	}
	return nil, nil
}

func (m *memoryGames) GetUserGameHistory(_ context.Context, userID int64, _ int) ([]postgres.GameRecord, error) {
	var out []postgres.GameRecord
	for _, g := range m.games {
		if seat(&g, userID) != domain.Empty {
			out = append(out, g)
		}
	}
	return out, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(games *memoryGames) *gin.Engine {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	users := &memoryUsers{users: map[string]*postgres.User{}}
	return NewRouter(RouterConfig{
		Auth:           NewAuthHandler(users, issuer, time.Hour),
		History:        NewHistoryHandler(games),
		Issuer:         issuer,
		AllowedOrigins: []string{"http://localhost:5173"},
		Health:         func() gin.H { return gin.H{"sessions": 0} },
	})
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(&memoryGames{})
	creds := map[string]string{"username": "alice", "password": "password1"}

	w := do(t, router, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, w.Result().Cookies())

	w = do(t, router, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "alice", "password": "wrong-pass1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code)
	token := tokenFrom(t, w)

	w = do(t, router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(&memoryGames{})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing password", map[string]string{"username": "alice"}},
		{"weak password", map[string]string{"username": "alice", "password": "short"}},
		{"bad username", map[string]string{"username": "a b", "password": "password1"}},
		{"bot name", map[string]string{"username": "Charles", "password": "password1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/auth/register", "", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHistory(t *testing.T) {
	games := &memoryGames{}
	router := newTestRouter(games)

	w := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code)
	token := tokenFrom(t, w)

	me, other := int64(1), int64(2)
	games.games = []postgres.GameRecord{
		{GameID: "g1", Player1ID: &me, Player1Name: "alice", Player2Name: "Charles", Agent: "alphabeta-6", Winner: domain.Player1, Reason: "four_in_a_row"},
		{GameID: "g2", Player1Name: "Bob", Player2ID: &me, Player2Name: "alice", Agent: "expectimax-6", Winner: domain.Player1, Reason: "resign"},
		{GameID: "g3", Player1ID: &other, Player1Name: "bob", Player2Name: "Alice", Winner: domain.Empty},
	}

	w = do(t, router, http.MethodGet, "/api/history", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodGet, "/api/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []GameHistoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	require.Equal(t, "win", items[0].Result)
	require.Equal(t, "Charles", items[0].Opponent)
	require.Equal(t, "loss", items[1].Result)
	require.Equal(t, "Bob", items[1].Opponent)

	w = do(t, router, http.MethodGet, "/api/history/g1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/history/g3", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code, "other players' games stay private")
}

func TestHealthAndLeaderboard(t *testing.T) {
	router := newTestRouter(&memoryGames{})

	w := do(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok","sessions":0}`, w.Body.String())

	w = do(t, router, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"rating":1016`)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(&memoryGames{})

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterWithoutDatabase(t *testing.T) {
	router := NewRouter(RouterConfig{})

	w := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
