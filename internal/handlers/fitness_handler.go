package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

// FitnessHandler serves the profile, workouts, goals, weight history and
// custom training programs.
type FitnessHandler struct {
	services *provider.Services
}

func NewFitnessHandler(services *provider.Services) *FitnessHandler {
	return &FitnessHandler{services: services}
}

func (h *FitnessHandler) ID() string { return "fitness" }

func (h *FitnessHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.GetProfile)
	router.Put("/profile", h.SaveProfile)

	router.Get("/workouts", h.ListWorkouts)
	router.Post("/workouts", h.SaveWorkout)

	router.Get("/goals/daily", h.GetDailyGoals)
	router.Put("/goals/daily", h.SaveDailyGoals)
	router.Get("/goals/weekly", h.GetWeeklyGoals)
	router.Put("/goals/weekly", h.SaveWeeklyGoals)

	router.Get("/weight", h.ListWeight)
	router.Post("/weight", h.SaveWeight)

	router.Get("/programs", h.ListPrograms)
	router.Post("/programs", h.SaveProgram)
	router.Delete("/programs/:id", h.DeleteProgram)
}

// GetProfile answers null when no profile was saved yet.
func (h *FitnessHandler) GetProfile(c *fiber.Ctx) error {
	p, err := backendFor(c, h.services).GetProfile(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "get profile", err)
	}
	return c.JSON(p)
}

func (h *FitnessHandler) SaveProfile(c *fiber.Ctx) error {
	var req models.UserProfile
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	p, err := backendFor(c, h.services).SaveProfile(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save profile", err)
	}
	return c.JSON(p)
}

func (h *FitnessHandler) ListWorkouts(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListWorkouts(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list workouts", err)
	}
	return c.JSON(list)
}

func (h *FitnessHandler) SaveWorkout(c *fiber.Ctx) error {
	var req models.Workout
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Date == "" {
		return badRequest(c, "date is required")
	}
	// Workouts are append-only; a client id never selects an existing one.
	req.ID = ""
	req.CreatedAt = time.Time{}
	w, err := backendFor(c, h.services).SaveWorkout(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save workout", err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

func (h *FitnessHandler) GetDailyGoals(c *fiber.Ctx) error {
	g, err := backendFor(c, h.services).GetDailyGoals(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "get daily goals", err)
	}
	return c.JSON(g)
}

func (h *FitnessHandler) SaveDailyGoals(c *fiber.Ctx) error {
	var req models.DailyGoals
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	g, err := backendFor(c, h.services).SaveDailyGoals(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save daily goals", err)
	}
	return c.JSON(g)
}

func (h *FitnessHandler) GetWeeklyGoals(c *fiber.Ctx) error {
	g, err := backendFor(c, h.services).GetWeeklyGoals(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "get weekly goals", err)
	}
	return c.JSON(g)
}

func (h *FitnessHandler) SaveWeeklyGoals(c *fiber.Ctx) error {
	var req models.WeeklyGoals
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	g, err := backendFor(c, h.services).SaveWeeklyGoals(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save weekly goals", err)
	}
	return c.JSON(g)
}

func (h *FitnessHandler) ListWeight(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListWeightHistory(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list weight", err)
	}
	return c.JSON(list)
}

func (h *FitnessHandler) SaveWeight(c *fiber.Ctx) error {
	var req models.WeightEntry
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Date == "" || req.Weight <= 0 {
		return badRequest(c, "date and a positive weight are required")
	}
	e, err := backendFor(c, h.services).SaveWeightEntry(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save weight", err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *FitnessHandler) ListPrograms(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListCustomPrograms(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list programs", err)
	}
	return c.JSON(list)
}

func (h *FitnessHandler) SaveProgram(c *fiber.Ctx) error {
	var req models.CustomProgram
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	p, err := backendFor(c, h.services).SaveCustomProgram(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save program", err)
	}
	return c.JSON(p)
}

func (h *FitnessHandler) DeleteProgram(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteCustomProgram(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete program", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
