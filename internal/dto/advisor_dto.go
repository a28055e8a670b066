package dto

import "github.com/ahmetcoskunkizilkaya/wellness-backend/internal/advisor"

type ChatRequest struct {
	Message string            `json:"message"`
	History []advisor.Message `json:"history"`
}
