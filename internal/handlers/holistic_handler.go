package handlers

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

// HolisticHandler serves the life-area goals, career milestones, health
// considerations and mindfulness sessions.
type HolisticHandler struct {
	services *provider.Services
}

func NewHolisticHandler(services *provider.Services) *HolisticHandler {
	return &HolisticHandler{services: services}
}

func (h *HolisticHandler) ID() string { return "holistic" }

func (h *HolisticHandler) RegisterRoutes(router fiber.Router) {
	holistic := router.Group("/holistic")
	holistic.Get("/goals", h.GetGoals)
	holistic.Put("/goals/:domain", h.SaveGoal)
	holistic.Get("/financial-goals", h.ListFinancialGoals)
	holistic.Put("/financial-goals", h.SaveFinancialGoals)
	holistic.Get("/intellectual-goals", h.ListIntellectualGoals)
	holistic.Put("/intellectual-goals", h.SaveIntellectualGoals)
	holistic.Get("/career-milestones", h.ListCareerMilestones)
	holistic.Post("/career-milestones", h.AddCareerMilestone)
	holistic.Delete("/career-milestones/:id", h.DeleteCareerMilestone)

	router.Get("/health-considerations", h.ListHealthConsiderations)
	router.Post("/health-considerations", h.SaveHealthConsideration)
	router.Delete("/health-considerations/:id", h.DeleteHealthConsideration)

	router.Get("/mindfulness/sessions", h.ListMindfulnessSessions)
	router.Post("/mindfulness/sessions", h.SaveMindfulnessSession)
	router.Put("/mindfulness/sessions/:id", h.SaveMindfulnessSession)
	router.Delete("/mindfulness/sessions/:id", h.DeleteMindfulnessSession)
}

func (h *HolisticHandler) GetGoals(c *fiber.Ctx) error {
	goals, err := backendFor(c, h.services).GetHolisticGoals(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "get holistic goals", err)
	}
	return c.JSON(goals)
}

// SaveGoal stores the raw request body as the goal object of :domain.
func (h *HolisticHandler) SaveGoal(c *fiber.Ctx) error {
	body := c.Body()
	if !json.Valid(body) {
		return invalidBody(c)
	}
	goals, err := backendFor(c, h.services).SaveHolisticGoal(c.UserContext(), models.Domain(c.Params("domain")), json.RawMessage(body))
	if err != nil {
		return storageFailure(c, h.services, "save holistic goal", err)
	}
	return c.JSON(goals)
}

func (h *HolisticHandler) ListFinancialGoals(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListFinancialGoals(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list financial goals", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) SaveFinancialGoals(c *fiber.Ctx) error {
	var req []models.FinancialGoal
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	list, err := backendFor(c, h.services).SaveFinancialGoals(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save financial goals", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) ListIntellectualGoals(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListIntellectualGoals(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list intellectual goals", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) SaveIntellectualGoals(c *fiber.Ctx) error {
	var req []models.IntellectualGoal
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	list, err := backendFor(c, h.services).SaveIntellectualGoals(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save intellectual goals", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) ListCareerMilestones(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListCareerMilestones(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list career milestones", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) AddCareerMilestone(c *fiber.Ctx) error {
	var req models.CareerMilestone
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}
	m, err := backendFor(c, h.services).AddCareerMilestone(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "add career milestone", err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *HolisticHandler) DeleteCareerMilestone(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteCareerMilestone(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete career milestone", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HolisticHandler) ListHealthConsiderations(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListHealthConsiderations(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list health considerations", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) SaveHealthConsideration(c *fiber.Ctx) error {
	var req models.HealthConsideration
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	hc, err := backendFor(c, h.services).SaveHealthConsideration(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save health consideration", err)
	}
	return c.JSON(hc)
}

func (h *HolisticHandler) DeleteHealthConsideration(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteHealthConsideration(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete health consideration", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HolisticHandler) ListMindfulnessSessions(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListMindfulnessSessions(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list mindfulness sessions", err)
	}
	return c.JSON(list)
}

func (h *HolisticHandler) SaveMindfulnessSession(c *fiber.Ctx) error {
	var req models.MindfulnessSession
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if id := c.Params("id"); id != "" {
		req.ID = id
	}
	if req.Duration <= 0 {
		return badRequest(c, "duration must be positive")
	}
	s, err := backendFor(c, h.services).SaveMindfulnessSession(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save mindfulness session", err)
	}
	return c.JSON(s)
}

func (h *HolisticHandler) DeleteMindfulnessSession(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteMindfulnessSession(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete mindfulness session", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
