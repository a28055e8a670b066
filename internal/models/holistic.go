package models

import (
	"encoding/json"
	"time"
)

// Domain names one area of holistic wellness.
type Domain string

const (
	DomainFitness      Domain = "fitness"
	DomainNutrition    Domain = "nutrition"
	DomainMindfulness  Domain = "mindfulness"
	DomainFinancial    Domain = "financial"
	DomainIntellectual Domain = "intellectual"
	DomainCareer       Domain = "career"
)

var Domains = []Domain{
	DomainFitness,
	DomainNutrition,
	DomainMindfulness,
	DomainFinancial,
	DomainIntellectual,
	DomainCareer,
}

func (d Domain) Valid() bool {
	for _, v := range Domains {
		if d == v {
			return true
		}
	}
	return false
}

// HolisticGoals keeps the goal object of each domain as raw JSON so that
// whatever the client stored comes back byte for byte.
type HolisticGoals map[Domain]json.RawMessage

type FinancialGoal struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	CurrentAmount float64 `json:"currentAmount"`
	TargetAmount  float64 `json:"targetAmount"`
	Unit          string  `json:"unit"`
	Type          string  `json:"type"`
	IsRecommended bool    `json:"isRecommended"`
}

func (g FinancialGoal) Key() string { return g.ID }

type IntellectualGoal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Current     float64 `json:"current"`
	Target      float64 `json:"target"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (g IntellectualGoal) Key() string { return g.ID }

type CareerMilestone struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

func (m CareerMilestone) Key() string { return m.ID }

type HealthConsideration struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

func (c HealthConsideration) Key() string { return c.ID }

type MindfulnessSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  int       `json:"duration"`
	Date      string    `json:"date"`
	Type      string    `json:"type,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s MindfulnessSession) Key() string { return s.ID }
