package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"todo-service/internal/config"
	"todo-service/internal/database"
	"todo-service/internal/repository"
	"todo-service/internal/routes"
)

// newTestRouter wires the real router over an in-memory sqlite store, with
// cache and event stream disabled.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{DatabaseURL: ":memory:", DBPoolSize: 1}
	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.EnsureSchema(ctx, db, cfg.DatabaseURL); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return routes.Router(repository.New(db), nil, nil, 0)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

// signup creates a user and returns its id.
func signup(t *testing.T, router *gin.Engine, email string) int64 {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/users/",
		`{"email":"`+email+`","password":"testpassword"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("signup %s: status %d body %s", email, w.Code, w.Body.String())
	}
	return int64(decodeMap(t, w)["id"].(float64))
}

// addTodo creates a todo for the user and returns its id.
func addTodo(t *testing.T, router *gin.Engine, userID int64, body string) int64 {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/users/"+itoa(userID)+"/todos/", body)
	if w.Code != http.StatusOK {
		t.Fatalf("add todo: status %d body %s", w.Code, w.Body.String())
	}
	return int64(decodeMap(t, w)["id"].(float64))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestReady(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/ready", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
}
