// Package storage defines the contract every persistence backend satisfies
// and the blob-per-collection implementation shared by all of them.
package storage

import (
	"context"
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
)

// Backend persists the records of one user. Reads of absent singletons
// return their empty value instead of an error: a nil profile, zero goals,
// an empty map or list.
type Backend interface {
	GetProfile(ctx context.Context) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error)

	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	SaveWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)

	GetDailyGoals(ctx context.Context) (*models.DailyGoals, error)
	SaveDailyGoals(ctx context.Context, g models.DailyGoals) (*models.DailyGoals, error)
	GetWeeklyGoals(ctx context.Context) (*models.WeeklyGoals, error)
	SaveWeeklyGoals(ctx context.Context, g models.WeeklyGoals) (*models.WeeklyGoals, error)

	ListWeightHistory(ctx context.Context) ([]models.WeightEntry, error)
	SaveWeightEntry(ctx context.Context, e models.WeightEntry) (*models.WeightEntry, error)

	GetHolisticGoals(ctx context.Context) (models.HolisticGoals, error)
	// SaveHolisticGoal replaces the goal object of one domain and leaves the
	// other domains untouched.
	SaveHolisticGoal(ctx context.Context, domain models.Domain, goal json.RawMessage) (models.HolisticGoals, error)

	// Financial and intellectual goals are rewritten as a whole list.
	ListFinancialGoals(ctx context.Context) ([]models.FinancialGoal, error)
	SaveFinancialGoals(ctx context.Context, goals []models.FinancialGoal) ([]models.FinancialGoal, error)
	ListIntellectualGoals(ctx context.Context) ([]models.IntellectualGoal, error)
	SaveIntellectualGoals(ctx context.Context, goals []models.IntellectualGoal) ([]models.IntellectualGoal, error)

	ListCareerMilestones(ctx context.Context) ([]models.CareerMilestone, error)
	// AddCareerMilestone prepends, keeping the list newest first.
	AddCareerMilestone(ctx context.Context, m models.CareerMilestone) (*models.CareerMilestone, error)
	DeleteCareerMilestone(ctx context.Context, id string) error

	ListHealthConsiderations(ctx context.Context) ([]models.HealthConsideration, error)
	SaveHealthConsideration(ctx context.Context, c models.HealthConsideration) (*models.HealthConsideration, error)
	DeleteHealthConsideration(ctx context.Context, id string) error

	ListCustomPrograms(ctx context.Context) ([]models.CustomProgram, error)
	SaveCustomProgram(ctx context.Context, p models.CustomProgram) (*models.CustomProgram, error)
	DeleteCustomProgram(ctx context.Context, id string) error

	ListCustomMealPlans(ctx context.Context) ([]models.CustomMealPlan, error)
	SaveCustomMealPlan(ctx context.Context, p models.CustomMealPlan) (*models.CustomMealPlan, error)
	DeleteCustomMealPlan(ctx context.Context, id string) error

	ListNutritionLogs(ctx context.Context) ([]models.NutritionLog, error)
	// GetNutritionLog returns nil when nothing was logged on date.
	GetNutritionLog(ctx context.Context, date string) (*models.NutritionLog, error)
	SaveNutritionLog(ctx context.Context, l models.NutritionLog) (*models.NutritionLog, error)

	ListMindfulnessSessions(ctx context.Context) ([]models.MindfulnessSession, error)
	SaveMindfulnessSession(ctx context.Context, s models.MindfulnessSession) (*models.MindfulnessSession, error)
	DeleteMindfulnessSession(ctx context.Context, id string) error

	ListSupplements(ctx context.Context) ([]models.Supplement, error)
	SaveSupplement(ctx context.Context, s models.Supplement) (*models.Supplement, error)
	DeleteSupplement(ctx context.Context, id string) error

	// ClearAll removes every collection in CollectionKeys.
	ClearAll(ctx context.Context) error
}

// BlobStore is the medium under a Backend: one opaque blob per key.
// Load returns nil, nil for a key that was never saved.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, keys ...string) error
}
