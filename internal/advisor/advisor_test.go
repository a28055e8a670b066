package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
		recs    []string
	}{
		{
			name:    "strict json",
			content: `{"message":"Drink more water","recommendations":["8 glasses a day"]}`,
			message: "Drink more water",
			recs:    []string{"8 glasses a day"},
		},
		{
			name:    "fenced json",
			content: "```json\n{\"message\":\"Rest today\",\"recommendations\":[\"Sleep 8h\"]}\n```",
			message: "Rest today",
			recs:    []string{"Sleep 8h"},
		},
		{
			name:    "json inside prose",
			content: `Sure! Here you go: {"message":"Try a 10 minute walk"} Hope it helps.`,
			message: "Try a 10 minute walk",
		},
		{
			name:    "plain text",
			content: "Keep going, you are doing great.",
			message: "Keep going, you are doing great.",
		},
		{
			name:    "broken json",
			content: `{"message": "unterminated`,
			message: `{"message": "unterminated`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := parseReply(tt.content)
			assert.Equal(t, tt.message, r.Message)
			assert.Equal(t, tt.recs, r.Recommendations)
		})
	}
}

func TestParseReply_GoalUpdates(t *testing.T) {
	r := parseReply(`{"message":"Updated","goalUpdates":{"daily":{"steps":9000}}}`)
	assert.JSONEq(t, `{"daily":{"steps":9000}}`, string(r.GoalUpdates))
}

func TestProvidersFromConfig_Order(t *testing.T) {
	cfg := &config.Config{
		GLMAPIKey: "g", GLMAPIURL: "https://glm", GLMModel: "glm-4-plus",
		OpenAIAPIKey: "o", OpenAIAPIURL: "https://openai", OpenAIModel: "gpt-4o-mini",
		DeepSeekAPIURL: "https://deepseek",
	}

	providers := ProvidersFromConfig(cfg)
	require.Len(t, providers, 2)
	assert.Equal(t, "openai", providers[0].Name)
	assert.Equal(t, "glm", providers[1].Name)
}

func TestChat_NoProvider(t *testing.T) {
	s := NewService(&config.Config{})
	_, err := s.Chat(context.Background(), local.New(kv.NewMemoryStore()), nil, "hi")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestChat_FallsBackToNextProvider(t *testing.T) {
	ctx := context.Background()
	backend := local.New(kv.NewMemoryStore())
	_, err := backend.SaveProfile(ctx, models.UserProfile{Name: "Kim", Age: 34})
	require.NoError(t, err)

	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "Bearer second-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```json\\n{\\\"message\\\":\\\"Hi Kim\\\"}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	s := NewService(&config.Config{AITimeout: 5 * time.Second}, WithProviders(
		Provider{Name: "openai", APIURL: srv.URL + "/broken", APIKey: "first-key", Model: "m1"},
		Provider{Name: "deepseek", APIURL: srv.URL + "/ok", APIKey: "second-key", Model: "m2"},
	))

	history := []Message{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "hi"}, {Role: "system", Content: "dropped"}}
	reply, err := s.Chat(ctx, backend, history, "How am I doing?")
	require.NoError(t, err)
	assert.Equal(t, "Hi Kim", reply.Message)
	assert.Equal(t, "deepseek", reply.Provider)

	assert.Equal(t, "m2", captured.Model)
	require.Len(t, captured.Messages, 5)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, `"name":"Kim"`)
	assert.Equal(t, "How am I doing?", captured.Messages[4].Content)
}

func TestChat_AllProvidersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(&config.Config{}, WithProviders(Provider{Name: "openai", APIURL: srv.URL, APIKey: "k", Model: "m"}))
	_, err := s.Chat(context.Background(), local.New(kv.NewMemoryStore()), nil, "hi")
	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.True(t, errors.Is(err, storage.ErrRemoteCall))
}

// flakyBackend fails one area so context gathering has something to skip.
type flakyBackend struct {
	storage.Backend
}

func (flakyBackend) ListWorkouts(context.Context) ([]models.Workout, error) {
	return nil, storage.RemoteCall("load", storage.KeyWorkouts, errors.New("timeout"))
}

func TestBuildContext_SkipsFailingArea(t *testing.T) {
	ctx := context.Background()
	backend := local.New(kv.NewMemoryStore())
	_, err := backend.SaveSupplement(ctx, models.Supplement{Name: "Vitamin D", Dosage: "1000IU", Frequency: "daily"})
	require.NoError(t, err)

	out := BuildContext(ctx, flakyBackend{Backend: backend})
	assert.Contains(t, out, "## Supplements")
	assert.Contains(t, out, "Vitamin D")
	assert.NotContains(t, out, "## Recent workouts")
	assert.NotContains(t, out, "## Profile")
}

func TestBuildContext_RecentWorkoutsNewestFirst(t *testing.T) {
	ctx := context.Background()
	backend := local.New(kv.NewMemoryStore())
	for _, d := range []string{"2024-01-01", "2024-01-03", "2024-01-02", "2024-01-05", "2024-01-04", "2024-01-06"} {
		_, err := backend.SaveWorkout(ctx, models.Workout{Date: d, Label: "w" + d})
		require.NoError(t, err)
	}

	out := BuildContext(ctx, backend)
	assert.NotContains(t, out, "w2024-01-01")
	assert.Less(t, strings.Index(out, "w2024-01-06"), strings.Index(out, "w2024-01-02"))
}
