package models

import "time"

// UserProfile is the singleton profile of the current user. A nil profile
// means nothing has been saved yet.
type UserProfile struct {
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Weight       float64   `json:"weight"`
	Height       float64   `json:"height"`
	FitnessGoals []string  `json:"fitnessGoals"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type DailyGoals struct {
	Steps         int       `json:"steps"`
	Calories      int       `json:"calories"`
	WaterGlasses  int       `json:"waterGlasses"`
	ActiveMinutes int       `json:"activeMinutes"`
	SleepHours    float64   `json:"sleepHours"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type WeeklyGoals struct {
	Workouts       int       `json:"workouts"`
	ActiveMinutes  int       `json:"activeMinutes"`
	TargetWeight   float64   `json:"targetWeight"`
	MindfulMinutes int       `json:"mindfulMinutes"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// WeightEntry is one point of the weight history, one per calendar date.
type WeightEntry struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

func (e WeightEntry) Key() string { return e.Date }
