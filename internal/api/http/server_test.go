package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appActivity "github.com/lantern-hub/lantern/internal/application/activity"
	appArbitration "github.com/lantern-hub/lantern/internal/application/arbitration"
	appAttempt "github.com/lantern-hub/lantern/internal/application/attempt"
	appAuth "github.com/lantern-hub/lantern/internal/application/auth"
	appLeaderboard "github.com/lantern-hub/lantern/internal/application/leaderboard"
	appNotification "github.com/lantern-hub/lantern/internal/application/notification"
	appRiddle "github.com/lantern-hub/lantern/internal/application/riddle"
	appUser "github.com/lantern-hub/lantern/internal/application/user"
	"github.com/lantern-hub/lantern/internal/infrastructure/avatar"
	"github.com/lantern-hub/lantern/internal/infrastructure/metrics"
	"github.com/lantern-hub/lantern/internal/infrastructure/sqlite"
	"github.com/lantern-hub/lantern/internal/infrastructure/sse"
)

const (
	adminName     = "organizer"
	adminPassword = "S3cure!Passw0rd"
)

type harness struct {
	db      *sql.DB
	hub     *sse.Hub
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := zerolog.Nop()
	userRepo := sqlite.NewUserRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	riddleRepo := sqlite.NewRiddleRepository(db)
	attemptRepo := sqlite.NewAttemptRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	leaderboardRepo := sqlite.NewLeaderboardRepository(db)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	hub := sse.NewHub()
	t.Cleanup(hub.Stop)

	activitySvc := appActivity.NewService(activityRepo, appActivity.Defaults{Name: "Lantern Festival", Duration: 24 * time.Hour}, logger)
	notificationSvc := appNotification.NewService(hub, nil, m, logger)
	userSvc := appUser.NewService(userRepo, logger)
	_, err = userSvc.EnsureAdmin(ctx, adminName, adminPassword)
	require.NoError(t, err)

	srv := NewServer(
		appArbitration.NewService(activitySvc, riddleRepo, attemptRepo, userRepo, notificationSvc, logger),
		activitySvc,
		appRiddle.NewService(riddleRepo, logger),
		appAttempt.NewService(attemptRepo, logger),
		appLeaderboard.NewService(leaderboardRepo, time.UTC, logger),
		appAuth.NewService(userRepo, sessionRepo, time.Hour, logger),
		userSvc,
		hub,
		avatar.NewLocalStore(t.TempDir(), "/", 1024),
		m,
		db.PingContext,
		Options{
			DisplayLocation: time.UTC,
			AvatarMaxBytes:  1024,
			PingInterval:    time.Hour,
			MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		},
		logger,
	)
	return &harness{db: db, hub: hub, handler: srv.Router()}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
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
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (h *harness) signIn(t *testing.T, name string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/login", map[string]string{"username": name}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeMap(t, rec)["session_token"].(string)
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": adminName, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeMap(t, rec)["session_token"].(string)
}

func (h *harness) createRiddle(t *testing.T, admin, question, answer string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/admin/riddles", map[string]interface{}{
		"question": question,
		"answer":   answer,
		"options":  []string{"lantern", "moon", " "},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeMap(t, rec)
	assert.Equal(t, answer, body["answer"])
	return body["riddleId"].(string)
}

func (h *harness) submit(t *testing.T, token, riddleID, answer string) map[string]interface{} {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/riddles/"+riddleID+"/answer", map[string]string{"answer": answer}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeMap(t, rec)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeMap(t, rec)["status"])
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	t.Run("json sign in sets cookie and resolves the user", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/login", map[string]string{"username": "  小明 "}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotEmpty(t, rec.Result().Cookies())
		assert.Equal(t, "lantern_session", rec.Result().Cookies()[0].Name)

		token := decodeMap(t, rec)["session_token"].(string)
		me := h.do(t, http.MethodGet, "/api/me", nil, token)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, "小明", decodeMap(t, me)["username"])
	})

	t.Run("blank name", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/login", map[string]string{"username": "   "}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing session", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = h.do(t, http.MethodGet, "/api/me", nil, "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		token := h.signIn(t, "Lily")
		rec := h.do(t, http.MethodPost, "/api/logout", nil, token)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = h.do(t, http.MethodGet, "/api/me", nil, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func multipartLogin(t *testing.T, h *harness, name, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("username", name))
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/login", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Multipart(t *testing.T) {
	h := newHarness(t)

	t.Run("with avatar", func(t *testing.T) {
		rec := multipartLogin(t, h, "Lily", "me.png", []byte("png"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		user := decodeMap(t, rec)["user"].(map[string]interface{})
		assert.True(t, strings.HasPrefix(user["avatar"].(string), "/avatar/"))
		assert.Len(t, user["userCode"], 8)
	})

	t.Run("without avatar", func(t *testing.T) {
		rec := multipartLogin(t, h, "Tom", "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		user := decodeMap(t, rec)["user"].(map[string]interface{})
		assert.NotContains(t, user, "avatar")
	})

	t.Run("rejects unsupported file", func(t *testing.T) {
		rec := multipartLogin(t, h, "Eve", "run.sh", []byte("#!/bin/sh"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_AVATAR", decodeMap(t, rec)["error"])
	})
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/admin/riddles", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	participant := h.signIn(t, "Lily")
	rec = h.do(t, http.MethodGet, "/api/admin/riddles", nil, participant)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/admin/login", map[string]string{"username": adminName, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := h.adminToken(t)
	rec = h.do(t, http.MethodGet, "/api/admin/riddles", nil, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteParticipant(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	id := h.createRiddle(t, admin, "What glows on the fifteenth night?", "Lantern")

	loginAs := func(name string) (string, string) {
		rec := h.do(t, http.MethodPost, "/api/login", map[string]string{"username": name}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeMap(t, rec)
		return body["session_token"].(string), body["user"].(map[string]interface{})["userId"].(string)
	}
	winnerToken, winnerID := loginAs("Lily")
	loserToken, loserID := loginAs("Bo")
	assert.Equal(t, "WIN", h.submit(t, winnerToken, id, "lantern")["outcome"])
	assert.Equal(t, "LOST_RACE", h.submit(t, loserToken, id, "lantern")["outcome"])

	rec := h.do(t, http.MethodDelete, "/api/admin/users/"+loserID, nil, loserToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/admin/users/"+loserID, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the deleted participant's session is gone with them
	rec = h.do(t, http.MethodGet, "/api/me", nil, loserToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/admin/users/"+loserID, nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/admin/users/"+winnerID, nil, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/admin/users/not-a-uuid", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/riddles/"+id, nil, winnerToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lily")
}

func TestRiddleAdministration(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	id := h.createRiddle(t, admin, "What glows on the fifteenth night?", "Lantern")

	t.Run("validation", func(t *testing.T) {
		rec := h.do(t, http.MethodPost, "/api/admin/riddles", map[string]string{"question": "q"}, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list with answers", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/admin/riddles?keyword=glows&page=1&pageSize=5", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, 1.0, body["total"])
		assert.Equal(t, 1.0, body["totalPages"])
		list := body["list"].([]interface{})
		require.Len(t, list, 1)
		assert.Equal(t, "Lantern", list[0].(map[string]interface{})["answer"])
	})

	t.Run("update", func(t *testing.T) {
		rec := h.do(t, http.MethodPut, "/api/admin/riddles/"+id, map[string]interface{}{
			"question": "What glows brightest?",
			"answer":   "Lantern",
			"options":  []string{"a", "b"},
		}, admin)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "What glows brightest?", decodeMap(t, rec)["question"])
	})

	t.Run("delete", func(t *testing.T) {
		other := h.createRiddle(t, admin, "temp", "x")
		rec := h.do(t, http.MethodDelete, "/api/admin/riddles/"+other, nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = h.do(t, http.MethodDelete, "/api/admin/riddles/"+other, nil, admin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSubmitAnswerFlow(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	id := h.createRiddle(t, admin, "What glows on the fifteenth night?", "Lantern")

	alice := h.signIn(t, "Alice")
	bob := h.signIn(t, "Bob")
	carol := h.signIn(t, "Carol")

	feed := h.do(t, http.MethodGet, "/api/riddles", nil, alice)
	require.Equal(t, http.StatusOK, feed.Code)
	assert.Contains(t, feed.Body.String(), id)
	assert.NotContains(t, feed.Body.String(), `"answer"`)

	res := h.submit(t, alice, id, "moon")
	assert.Equal(t, "WRONG_ANSWER", res["outcome"])
	assert.Equal(t, false, res["correct"])

	res = h.submit(t, alice, id, "Lantern")
	assert.Equal(t, "ALREADY_ATTEMPTED", res["outcome"])

	res = h.submit(t, bob, id, "  LANTERN ")
	assert.Equal(t, "WIN", res["outcome"])
	assert.NotEmpty(t, res["message"])

	res = h.submit(t, carol, id, "lantern")
	assert.Equal(t, "LOST_RACE", res["outcome"])

	t.Run("riddle shows the winner", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/riddles/"+id, nil, carol)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeMap(t, rec)
		assert.Equal(t, true, body["solved"])
		assert.Equal(t, "Bob", body["winnerName"])
		assert.NotContains(t, body, "answer")
	})

	t.Run("solved riddles leave the feed", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/riddles", nil, carol)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), id)
	})

	t.Run("my records", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/my/records", nil, bob)
		require.Equal(t, http.StatusOK, rec.Code)
		var records []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, true, records[0]["won"])
		assert.Equal(t, true, records[0]["correct"])
	})

	t.Run("leaderboard and standings", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/admin/leaderboard?order=desc", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeMap(t, rec)["list"].([]interface{})
		require.Len(t, list, 1)
		assert.Equal(t, "Bob", list[0].(map[string]interface{})["winnerName"])

		rec = h.do(t, http.MethodGet, "/api/leaderboard/standings", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var standings []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &standings))
		require.Len(t, standings, 1)
		assert.Equal(t, 1.0, standings[0]["wins"])
	})

	t.Run("export", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/admin/records/export", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeffrecord id,winner,riddle,answer,solved at\n"))
		assert.Contains(t, rec.Body.String(), "Bob")

		rec = h.do(t, http.MethodGet, "/api/admin/records/export?expr=winner+%3D%3D+%27Nobody%27", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-Row-Count"))

		rec = h.do(t, http.MethodGet, "/api/admin/records/export?expr=winner+%3D%3D", nil, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("participants", func(t *testing.T) {
		rec := h.do(t, http.MethodGet, "/api/admin/users?keyword=bo", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1.0, decodeMap(t, rec)["total"])
	})
}

func TestSubmitAnswer_Errors(t *testing.T) {
	h := newHarness(t)
	alice := h.signIn(t, "Alice")

	rec := h.do(t, http.MethodPost, "/api/riddles/not-a-uuid/answer", map[string]string{"answer": "x"}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/riddles/7f1d2c1e-7a52-4a8f-9d59-0f4b7a0c4e11/answer", map[string]string{"answer": "x"}, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/riddles/7f1d2c1e-7a52-4a8f-9d59-0f4b7a0c4e11/answer", map[string]string{"answer": "  "}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/riddles/7f1d2c1e-7a52-4a8f-9d59-0f4b7a0c4e11/answer", map[string]string{"answer": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActivity(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)

	rec := h.do(t, http.MethodGet, "/api/activity", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "ACTIVE", body["phase"])
	assert.Equal(t, "Lantern Festival", body["activity"].(map[string]interface{})["name"])

	rec = h.do(t, http.MethodPut, "/api/admin/activity", map[string]string{
		"name": "x", "start_time": "2026-02-12 20:00:00", "end_time": "2026-02-12 19:00:00",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/admin/activity", map[string]string{
		"name": "x", "start_time": "yesterday", "end_time": "2026-02-12 19:00:00",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/admin/activity", map[string]string{
		"name": "Past", "start_time": "2020-01-01 00:00:00", "end_time": "2020-01-02T00:00:00Z",
	}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/activity", nil, "")
	assert.Equal(t, "ENDED", decodeMap(t, rec)["phase"])

	id := h.createRiddle(t, admin, "q", "a")
	alice := h.signIn(t, "Alice")
	res := h.submit(t, alice, id, "a")
	assert.Equal(t, "CONTEST_NOT_ACTIVE", res["outcome"])
}

func TestStorageUnavailable(t *testing.T) {
	h := newHarness(t)
	alice := h.signIn(t, "Alice")
	require.NoError(t, h.db.Close())

	rec := h.do(t, http.MethodGet, "/api/riddles", nil, alice)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "STORAGE_UNAVAILABLE", body["error"])
	assert.Equal(t, true, body["retryable"])

	rec = h.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/api/activity", nil, "")

	rec := h.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lantern_http_requests_total")
}

// readFrame returns the event name and data of the next SSE frame.
func readFrame(t *testing.T, reader *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
	return event, data
}

func TestEventsStream(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken(t)
	id := h.createRiddle(t, admin, "What glows?", "Lantern")
	bob := h.signIn(t, "Bob")

	ts := httptest.NewServer(h.handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)
	assert.Equal(t, 1, h.hub.GetClientCount())

	event, data := readFrame(t, reader)
	assert.Equal(t, "connected", event)
	var hello map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &hello))
	assert.NotEmpty(t, hello["clientId"])

	res := h.submit(t, bob, id, "lantern")
	require.Equal(t, "WIN", res["outcome"])

	event, data = readFrame(t, reader)
	assert.Equal(t, "riddle_solved", event)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, id, payload["riddleId"])
	assert.Equal(t, "Bob", payload["winnerName"])
}
