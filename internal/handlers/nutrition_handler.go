package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

type NutritionHandler struct {
	services *provider.Services
}

func NewNutritionHandler(services *provider.Services) *NutritionHandler {
	return &NutritionHandler{services: services}
}

func (h *NutritionHandler) ID() string { return "nutrition" }

func (h *NutritionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/nutrition/logs", h.ListLogs)
	router.Get("/nutrition/logs/:date", h.GetLog)
	router.Put("/nutrition/logs/:date", h.SaveLog)

	router.Get("/meal-plans", h.ListMealPlans)
	router.Post("/meal-plans", h.SaveMealPlan)
	router.Delete("/meal-plans/:id", h.DeleteMealPlan)

	router.Get("/supplements", h.ListSupplements)
	router.Post("/supplements", h.SaveSupplement)
	router.Put("/supplements/:id", h.SaveSupplement)
	router.Delete("/supplements/:id", h.DeleteSupplement)
}

type nutritionLogResponse struct {
	models.NutritionLog
	Totals models.NutritionTotals `json:"totals"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (h *NutritionHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := backendFor(c, h.services).ListNutritionLogs(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list nutrition logs", err)
	}
	return c.JSON(logs)
}

// GetLog answers an empty log for days without entries.
func (h *NutritionHandler) GetLog(c *fiber.Ctx) error {
	date := c.Params("date")
	if !validDate(date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	l, err := backendFor(c, h.services).GetNutritionLog(c.UserContext(), date)
	if err != nil {
		return storageFailure(c, h.services, "get nutrition log", err)
	}
	if l == nil {
		l = &models.NutritionLog{Date: date, Meals: []models.MealEntry{}}
	}
	return c.JSON(nutritionLogResponse{NutritionLog: *l, Totals: l.Totals()})
}

func (h *NutritionHandler) SaveLog(c *fiber.Ctx) error {
	date := c.Params("date")
	if !validDate(date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	var req models.NutritionLog
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	req.Date = date

	l, err := backendFor(c, h.services).SaveNutritionLog(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save nutrition log", err)
	}
	return c.JSON(nutritionLogResponse{NutritionLog: *l, Totals: l.Totals()})
}

func (h *NutritionHandler) ListMealPlans(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListCustomMealPlans(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list meal plans", err)
	}
	return c.JSON(list)
}

func (h *NutritionHandler) SaveMealPlan(c *fiber.Ctx) error {
	var req models.CustomMealPlan
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	p, err := backendFor(c, h.services).SaveCustomMealPlan(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save meal plan", err)
	}
	return c.JSON(p)
}

func (h *NutritionHandler) DeleteMealPlan(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteCustomMealPlan(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete meal plan", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NutritionHandler) ListSupplements(c *fiber.Ctx) error {
	list, err := backendFor(c, h.services).ListSupplements(c.UserContext())
	if err != nil {
		return storageFailure(c, h.services, "list supplements", err)
	}
	return c.JSON(list)
}

// SaveSupplement creates on POST and replaces the record named by :id on PUT.
func (h *NutritionHandler) SaveSupplement(c *fiber.Ctx) error {
	var req models.Supplement
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if id := c.Params("id"); id != "" {
		req.ID = id
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	s, err := backendFor(c, h.services).SaveSupplement(c.UserContext(), req)
	if err != nil {
		return storageFailure(c, h.services, "save supplement", err)
	}
	return c.JSON(s)
}

func (h *NutritionHandler) DeleteSupplement(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).DeleteSupplement(c.UserContext(), c.Params("id")); err != nil {
		return storageFailure(c, h.services, "delete supplement", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
