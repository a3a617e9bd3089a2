package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goncalo-araujo/babyshower/internal/config"
	"github.com/goncalo-araujo/babyshower/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// scriptedGenerator replays responder/extractor outputs per chat turn.
type scriptedGenerator struct {
	outputs []string
	calls   int
}

func (s *scriptedGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	out := ""
	if s.calls < len(s.outputs) {
		out = s.outputs[s.calls]
	}
	s.calls++
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Auth: config.AuthConfig{
			AdminPassword: "admin-pw",
			GuestPassword: "guest-pw",
			TokenSecret:   "signing-key",
			TokenTTLHours: 1,
		},
		Assistant: config.AssistantConfig{HistoryTurns: 10, TimeoutSeconds: 5},
		RateLimit: config.RateLimitConfig{LoginDailyLimit: 10, ChatEnabled: true, ChatDailyLimit: 100},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // each :memory: connection is its own database
	require.NoError(t, db.AutoMigrate(&models.Item{}, &models.Contribution{}, &models.RateLimit{}))
	return db
}

func newTestServer(t *testing.T, gen *scriptedGenerator) *gin.Engine {
	t.Helper()
	if gen == nil {
		gen = &scriptedGenerator{}
	}
	return Setup(testConfig(), newTestDB(t), zap.NewNop(), gen)
}

func doJSON(r *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:1234"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminHeaders() map[string]string { return map[string]string{"X-Admin-Token": "admin-pw"} }
func guestHeaders() map[string]string { return map[string]string{"X-Guest-Token": "guest-pw"} }

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createItem(t *testing.T, r *gin.Engine, title string, price float64) uint {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/items", gin.H{"title": title, "price_total": price}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return uint(decode(t, w)["id"].(float64))
}

func TestHealthz(t *testing.T) {
	r := newTestServer(t, nil)
	w := doJSON(r, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestServer(t, nil)
	w := doJSON(r, http.MethodOptions, "/contributions", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestItems_AdminGate(t *testing.T) {
	r := newTestServer(t, nil)

	w := doJSON(r, http.MethodPost, "/items", gin.H{"title": "Crib", "price_total": 100}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/items", gin.H{"title": "Crib", "price_total": 100}, guestHeaders())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/items", gin.H{"title": "Crib", "price_total": 100}, adminHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestItems_ValidationErrors(t *testing.T) {
	r := newTestServer(t, nil)

	w := doJSON(r, http.MethodPost, "/items", gin.H{"price_total": 100}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w), "error")

	w = doJSON(r, http.MethodPost, "/items", gin.H{"title": "  \t ", "price_total": 100}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/items", gin.H{"title": "Crib", "price_total": -1}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItems_ListIsPublicAndOrdered(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)
	_ = createItem(t, r, "Stroller", 50)

	// fund the crib so it sorts after the stroller
	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 100}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/items", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Stroller", items[0]["title"])
	assert.Equal(t, "Crib", items[1]["title"])
	assert.Equal(t, true, items[1]["is_funded"])
}

func TestContributions_ClipAndConflict(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 80}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	// 50 against the remaining 20 applies 20 and funds the item
	w = doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Bruno", "amount": 50}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 20.0, body["applied_amount"])
	assert.Equal(t, 100.0, body["new_raised"])
	assert.Equal(t, true, body["is_funded"])

	w = doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Carla", "amount": 5}, guestHeaders())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContributions_Validation(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": -3}, guestHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// beyond any plausible amount; would overflow the cent conversion
	w = doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 1e17}, guestHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/items",
		gin.H{"title": "Castle", "price_total": 1e17}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": 999, "contributor_name": "Ana", "amount": 5}, guestHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMyContributions_OwnerScoping(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 30}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/my-contributions", nil, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	contributionID := int(mine[0]["id"].(float64))

	// another caller sees nothing and cannot cancel Ana's pledge
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/my-contributions/%d", contributionID), nil)
	req.Header.Set("X-Guest-Token", "guest-pw")
	req.RemoteAddr = "10.9.9.9:1234"
	other := httptest.NewRecorder()
	r.ServeHTTP(other, req)
	assert.Equal(t, http.StatusNotFound, other.Code)

	// the owner can
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/my-contributions/%d", contributionID), nil, guestHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContributions_AdminListAndDelete(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 30, "message": "hi"}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/contributions", nil, guestHeaders())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/contributions", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Crib", rows[0]["item_title"])

	contributionID := int(rows[0]["id"].(float64))
	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/contributions/%d", contributionID), nil, adminHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContributions_ExportCSV(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)
	w := doJSON(r, http.MethodPost, "/contributions",
		gin.H{"item_id": id, "contributor_name": "Ana", "amount": 30}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/contributions/export", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Ana")
	assert.Contains(t, w.Body.String(), "Crib")
}

func TestUpdateItem_BlankFieldsKeepValues(t *testing.T) {
	r := newTestServer(t, nil)
	id := createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/items/%d", id),
		gin.H{"description": "solid wood"}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/items", nil, nil)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Equal(t, "Crib", items[0]["title"])
	assert.Equal(t, "solid wood", items[0]["description"])
}

func TestAuth_TokenFlowAndRateLimit(t *testing.T) {
	r := newTestServer(t, nil)

	w := doJSON(r, http.MethodPost, "/guest/auth", gin.H{"password": "guest-pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// the minted token works as the capability header
	w = doJSON(r, http.MethodGet, "/my-contributions", nil, map[string]string{"X-Guest-Token": token})
	assert.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 10; i++ {
		w = doJSON(r, http.MethodPost, "/admin/auth", gin.H{"password": "wrong"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = doJSON(r, http.MethodPost, "/admin/auth", gin.H{"password": "admin-pw"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestChat_ProposalFlow(t *testing.T) {
	gen := &scriptedGenerator{outputs: []string{
		"I'll note 25 euros for the crib from Ana!",
		`{"action":"contribute","item_id":1,"name":"Ana","amount":25}`,
	}}
	r := newTestServer(t, gen)
	createItem(t, r, "Crib", 100)

	w := doJSON(r, http.MethodPost, "/chat",
		gin.H{"message": "25 for the crib, I'm Ana"}, guestHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.NotEmpty(t, body["reply"])
	require.NotNil(t, body["contribution_pending"])
	pending := body["contribution_pending"].(map[string]interface{})
	assert.Equal(t, 1.0, pending["item_id"])
	assert.Equal(t, 2500.0, pending["amount_cents"])
	assert.Nil(t, body["cancellation_pending"])
}

func TestChat_RequiresCapabilityAndMessage(t *testing.T) {
	r := newTestServer(t, nil)

	w := doJSON(r, http.MethodPost, "/chat", gin.H{"message": "hi"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/chat", gin.H{"message": "   "}, guestHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChat_DailyCap(t *testing.T) {
	tight := testConfig()
	tight.RateLimit.ChatDailyLimit = 2
	r := Setup(tight, newTestDB(t), zap.NewNop(), &scriptedGenerator{})

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/chat", gin.H{"message": "hello"}, guestHeaders())
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(r, http.MethodPost, "/chat", gin.H{"message": "hello"}, guestHeaders())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
