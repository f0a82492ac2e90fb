package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/kv"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	"github.com/yungbote/noteeline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	httpH "github.com/yungbote/noteeline-backend/internal/http/handlers"
	"github.com/yungbote/noteeline-backend/internal/inference/gateway"
	"github.com/yungbote/noteeline-backend/internal/inference/router"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/prompts"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
	"github.com/yungbote/noteeline-backend/internal/realtime"
	"github.com/yungbote/noteeline-backend/internal/services"
)

type stubMedia struct{}

func (stubMedia) Transcript(context.Context, string) ([]types.TranscriptSegment, error) {
	return []types.TranscriptSegment{{Text: "intro", DurationMs: 5000}}, nil
}

func (stubMedia) Summary(context.Context, string) (string, error) { return "an intro", nil }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	for i := range cfg.Models {
		cfg.Models[i].Engine.Type = "mock"
	}
	require.NoError(t, config.Normalize(cfg))
	rt, err := router.New(cfg)
	require.NoError(t, err)

	log := logger.Nop()
	store := kv.NewMemory("")
	rp := repos.New(testutil.DB(t), log)
	hub := realtime.NewSSEHub(log)
	exp := cfg.Expansion
	exp.StreamDelay = config.Duration{}
	svc := services.NewSessionManager(services.SessionDeps{
		Notes:       rp.Notes,
		Onboardings: rp.Onboardings,
		KV:          store,
		Generator:   gateway.New(rt, kv.APIKeys{Store: store}, log),
		Prompts:     prompts.Embedded(),
		Media:       stubMedia{},
		Notifier:    services.NewSessionNotifier(&services.HubEmitter{Hub: hub}),
		Expansion:   exp,
		Log:         log,
	})
	t.Cleanup(svc.Close)

	return NewRouter(RouterConfig{
		Log:             log,
		ServiceName:     "noteeline-test",
		MaxRequestBytes: 1 << 20,
		HealthHandler:   httpH.NewHealthHandler(),
		NoteHandler:     httpH.NewNoteHandler(log, svc),
		SessionHandler:  httpH.NewSessionHandler(log, svc),
		RealtimeHandler: httpH.NewRealtimeHandler(log, hub),
	})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type entryBody struct {
	ID      string   `json:"id"`
	Level   int      `json:"level"`
	History []string `json:"history"`
	State   string   `json:"state"`
}

func TestHealthcheck(t *testing.T) {
	r := testRouter(t)
	rec := do(t, r, stdhttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestErrorEnvelopeMapping(t *testing.T) {
	r := testRouter(t)

	rec := do(t, r, stdhttp.MethodGet, "/api/session", nil)
	require.Equal(t, stdhttp.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decode[envelope](t, rec).Error.Code)

	rec = do(t, r, stdhttp.MethodPost, "/api/session", map[string]string{"name": "ghost"})
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[envelope](t, rec).Error.Code)

	rec = do(t, r, stdhttp.MethodPost, "/api/notes", map[string]any{"name": "  "})
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decode[envelope](t, rec).Error.Code)

	require.Equal(t, stdhttp.StatusCreated, do(t, r, stdhttp.MethodPost, "/api/notes", map[string]any{"name": "Bio"}).Code)
	rec = do(t, r, stdhttp.MethodPost, "/api/notes", map[string]any{"name": "Bio"})
	require.Equal(t, stdhttp.StatusConflict, rec.Code)

	require.Equal(t, stdhttp.StatusOK, do(t, r, stdhttp.MethodPost, "/api/session", map[string]string{"name": "Bio"}).Code)
	rec = do(t, r, stdhttp.MethodPost, "/api/session/reorder", map[string]int{"to": 1})
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode[envelope](t, rec).Error.Code)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/video", map[string]string{"link": "https://vimeo.com/1"})
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/themes/x/edit", nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestSessionFlow(t *testing.T) {
	r := testRouter(t)
	require.Equal(t, stdhttp.StatusCreated, do(t, r, stdhttp.MethodPost, "/api/notes", map[string]any{"name": "Chem 1"}).Code)
	require.Equal(t, stdhttp.StatusOK, do(t, r, stdhttp.MethodPost, "/api/session", map[string]string{"name": "Chem 1"}).Code)

	rec := do(t, r, stdhttp.MethodPost, "/api/session/points", map[string]any{"text": "acids", "created_at": 2.0})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	first := decode[entryBody](t, rec)
	rec = do(t, r, stdhttp.MethodPost, "/api/session/points", map[string]any{"text": "bases", "created_at": 4.0})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	second := decode[entryBody](t, rec)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/points/"+first.ID+"/expand", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	got := decode[entryBody](t, rec)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, []string{"acids", "acids, explained in one sentence."}, got.History)
	assert.Equal(t, "stable", got.State)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/points/"+second.ID+"/expand?stream=true", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
	body := rec.Body.String()
	assert.Regexp(t, regexp.MustCompile(`event: ?StreamFragment`), body)
	assert.Regexp(t, regexp.MustCompile(`event: ?done`), body)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/reduce-all", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	entries := decode[struct {
		Entries []entryBody `json:"entries"`
	}](t, rec).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Level)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/reorder", map[string]int{"from": 0, "to": 1})
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	entries = decode[struct {
		Entries []entryBody `json:"entries"`
	}](t, rec).Entries
	assert.Equal(t, second.ID, entries[0].ID)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/themes", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	themes := decode[struct {
		Themes []types.ThemeItem `json:"themes"`
	}](t, rec).Themes
	require.Len(t, themes, 3)
	assert.Equal(t, "Notes", themes[0].Text)

	rec = do(t, r, stdhttp.MethodPost, "/api/session/video", map[string]string{"link": "https://youtu.be/vid1"})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	attach := decode[services.AttachResult](t, rec)
	assert.Equal(t, "vid1", attach.VideoID)
	assert.Equal(t, "an intro", attach.Summary)

	require.Equal(t, stdhttp.StatusOK, do(t, r, stdhttp.MethodPost, "/api/session/playback", map[string]any{"time": 0.5, "playing": true}).Code)
	rec = do(t, r, stdhttp.MethodPost, "/api/session/playback/pause", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[types.PlaybackCounters](t, rec).PauseCount)

	rec = do(t, r, stdhttp.MethodGet, "/api/session/export", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Chem1bulletPointsData.json"`, rec.Header().Get("Content-Disposition"))
	art := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), art["pauseCount"])
	assert.Equal(t, "www.youtube.com/watch?v=vid1", art["url"])
}

func TestSettingsAndOnboarding(t *testing.T) {
	r := testRouter(t)

	rec := do(t, r, stdhttp.MethodGet, "/api/settings/api-key", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"configured":false}`, rec.Body.String())
	require.Equal(t, stdhttp.StatusNoContent, do(t, r, stdhttp.MethodPut, "/api/settings/api-key", map[string]string{"key": "sk-x"}).Code)
	rec = do(t, r, stdhttp.MethodGet, "/api/settings/api-key", nil)
	assert.JSONEq(t, `{"configured":true}`, rec.Body.String())

	for _, id := range []string{"a", "b", "c"} {
		rec = do(t, r, stdhttp.MethodPut, "/api/onboarding", map[string]any{"id": id, "note": "n", "keypoints": []string{"k"}})
		require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	}
	rec = do(t, r, stdhttp.MethodPut, "/api/onboarding", map[string]any{"id": "d", "note": "n", "keypoints": []string{"k"}})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = do(t, r, stdhttp.MethodGet, "/api/onboarding", nil)
	sections := decode[struct {
		Sections []services.OnboardingInput `json:"sections"`
	}](t, rec).Sections
	assert.Len(t, sections, 3)
}
