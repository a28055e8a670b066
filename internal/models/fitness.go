package models

import "time"

type Workout struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Label     string    `json:"label"`
	Duration  int       `json:"duration"`
	Calories  int       `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w Workout) Key() string { return w.ID }

// CustomProgram is a user-built training schedule.
type CustomProgram struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Days        []ProgramDay `json:"days"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (p CustomProgram) Key() string { return p.ID }

type ProgramDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets,omitempty"`
	Reps     string `json:"reps,omitempty"`
	Duration int    `json:"duration,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
