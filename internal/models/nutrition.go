package models

import "time"

// NutritionLog holds everything eaten on one calendar date (YYYY-MM-DD).
// Totals are derived from Meals and are never persisted.
type NutritionLog struct {
	Date        string      `json:"date"`
	Meals       []MealEntry `json:"meals"`
	WaterIntake int         `json:"waterIntake"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (l NutritionLog) Key() string { return l.Date }

type MealEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"` // breakfast, lunch, dinner, snack
	Time     string  `json:"time,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Water    int     `json:"water"`
}

func (l NutritionLog) Totals() NutritionTotals {
	t := NutritionTotals{Water: l.WaterIntake}
	for _, m := range l.Meals {
		t.Calories += m.Calories
		t.Protein += m.Protein
		t.Carbs += m.Carbs
		t.Fat += m.Fat
	}
	return t
}

type CustomMealPlan struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Days        []MealPlanDay `json:"days"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (p CustomMealPlan) Key() string { return p.ID }

type MealPlanDay struct {
	Day   string        `json:"day"`
	Meals []PlannedMeal `json:"meals"`
}

type PlannedMeal struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Supplement struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

func (s Supplement) Key() string { return s.ID }
