package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deskmate/internal/config"
	"deskmate/internal/integrations/wikipedia"
	"deskmate/internal/repository"
	"deskmate/internal/usecase"
)

func newSQLite(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.NewSQLite(filepath.Join(t.TempDir(), "deskmate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBuild_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Persona = "pirate"
	_, err := Build(cfg, newSQLite(t), nil)
	require.ErrorContains(t, err, "app: invalid config")
}

func TestBuild_EndToEndWithSQLiteAndResearch(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/page/summary/volcanoes", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":    "standard",
			"extract": "A volcano is a rupture in the crust of a planetary-mass object that allows hot lava and gases to escape.",
		})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.ResearchBaseURL = srv.URL
	cfg.Seed = 11
	cfg.TypingDelay = 0
	cfg.ResearchTimeout = 2 * time.Second

	store := newSQLite(t)
	rt, err := Build(cfg, store, nil, wikipedia.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ctx := context.Background()
	out, err := rt.Chat.Chat(ctx, usecase.ChatInput{Utterance: "What is 15 + 27?", ConversationID: "c1"})
	require.NoError(t, err)
	require.Contains(t, out.Reply, "42")

	out, err = rt.Chat.Chat(ctx, usecase.ChatInput{Utterance: "tell me about volcanoes", ConversationID: "c1"})
	require.NoError(t, err)
	require.Equal(t, "research", out.Source)
	require.Contains(t, out.Reply, "A volcano is a rupture")
	require.Equal(t, int32(1), hits.Load())

	turns, err := store.GetHistory(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	require.Equal(t, "What is 15 + 27?", turns[0].Text)
	require.Equal(t, "tell me about volcanoes", turns[2].Text)
	require.Equal(t, 1, rt.Sessions.Len())
}

func TestBuild_RestoresHistoryFromTranscript(t *testing.T) {
	cfg := config.DefaultConfig()
	store := newSQLite(t)
	ctx := context.Background()

	first, err := Build(cfg, store, nil)
	require.NoError(t, err)
	_, err = first.Chat.Chat(ctx, usecase.ChatInput{Utterance: "hello", ConversationID: "c1"})
	require.NoError(t, err)

	second, err := Build(cfg, store, nil)
	require.NoError(t, err)
	turns, err := second.Chat.History(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, "hello", turns[0].Text)
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "warn"

	var buf bytes.Buffer
	log := NewLogger(&buf, cfg, true)
	log.Info("dropped")
	log.Warn("kept", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "kept", rec["msg"])
	require.Equal(t, "v", rec["k"])
}
