package advisor

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
)

const recentWorkouts = 5

type area struct {
	title string
	key   string
	load  func(ctx context.Context, b storage.Backend) (any, error)
}

var areas = []area{
	{"Profile", storage.KeyProfile, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.GetProfile(ctx)
	}},
	{"Recent workouts", storage.KeyWorkouts, func(ctx context.Context, b storage.Backend) (any, error) {
		w, err := b.ListWorkouts(ctx)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(w, func(x, y models.Workout) int { return strings.Compare(y.Date, x.Date) })
		if len(w) > recentWorkouts {
			w = w[:recentWorkouts]
		}
		return w, nil
	}},
	{"Daily goals", storage.KeyDailyGoals, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.GetDailyGoals(ctx)
	}},
	{"Weekly goals", storage.KeyWeeklyGoals, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.GetWeeklyGoals(ctx)
	}},
	{"Latest nutrition log", storage.KeyNutritionLogs, func(ctx context.Context, b storage.Backend) (any, error) {
		logs, err := b.ListNutritionLogs(ctx)
		if err != nil || len(logs) == 0 {
			return nil, err
		}
		latest := slices.MaxFunc(logs, func(x, y models.NutritionLog) int { return strings.Compare(x.Date, y.Date) })
		return map[string]any{"date": latest.Date, "meals": latest.Meals, "totals": latest.Totals()}, nil
	}},
	{"Mindfulness sessions", storage.KeyMindfulnessSessions, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListMindfulnessSessions(ctx)
	}},
	{"Supplements", storage.KeySupplements, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListSupplements(ctx)
	}},
	{"Health considerations", storage.KeyHealthConsiderations, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListHealthConsiderations(ctx)
	}},
	{"Holistic goals", storage.KeyHolisticGoals, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.GetHolisticGoals(ctx)
	}},
	{"Financial goals", storage.KeyFinancialGoals, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListFinancialGoals(ctx)
	}},
	{"Intellectual goals", storage.KeyIntellectualGoals, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListIntellectualGoals(ctx)
	}},
	{"Career milestones", storage.KeyCareerMilestones, func(ctx context.Context, b storage.Backend) (any, error) {
		return b.ListCareerMilestones(ctx)
	}},
}

// BuildContext renders the user's records as titled JSON sections. Empty
// areas are left out; an area that fails to load is logged and skipped.
func BuildContext(ctx context.Context, b storage.Backend) string {
	var sb strings.Builder
	for _, a := range areas {
		v, err := a.load(ctx, b)
		if err != nil {
			slog.Warn("advisor context area skipped", "collection", a.key, "error", err)
			continue
		}
		data, err := json.Marshal(v)
		if err != nil || isEmptyJSON(data) {
			continue
		}
		sb.WriteString("## ")
		sb.WriteString(a.title)
		sb.WriteString("\n")
		sb.Write(data)
		sb.WriteString("\n")
	}
	return sb.String()
}

func isEmptyJSON(data []byte) bool {
	switch string(data) {
	case "null", "[]", "{}":
		return true
	}
	return false
}
