package api

import (
	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/abelzeko/powercut-bot/internal/usecases"
	"github.com/gofiber/fiber/v2"
)

type waterLevelResponse struct {
	Date        string  `json:"date"`
	Level       float64 `json:"level"`
	PercentFull float64 `json:"percent_full"`
	Trend       float64 `json:"trend"`
	TrendDays   int     `json:"trend_days"`
}

// NewHTTPServer registers the outage report endpoints
func NewHTTPServer(services *Services) *fiber.App {
	srv := fiber.New()

	srv.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	srv.Post("/report-outage", func(c *fiber.Ctx) error {
		var report usecases.OutageReport
		if err := c.BodyParser(&report); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report body"})
		}
		return c.JSON(usecases.HandleOutageReport(c.UserContext(), services.Predictions, report))
	})

	srv.Get("/water-level", func(c *fiber.Ctx) error {
		sample, ok := services.Levels.Latest(c.UserContext())
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no water level data"})
		}
		return c.JSON(waterLevelResponse{
			Date:        entities.FormatSampleDate(sample.Date),
			Level:       sample.Level,
			PercentFull: sample.PercentFull,
			Trend:       services.Levels.Trend(services.TrendWindow),
			TrendDays:   services.TrendWindow,
		})
	})

	srv.Get("/locations", func(c *fiber.Ctx) error {
		return c.JSON(services.Locations.Locations())
	})

	return srv
}
