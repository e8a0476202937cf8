package indicator

import (
	"time"

	"quanan-backend/internal/config"
	"quanan-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// parseRange reads ?fromDate=YYYY-MM-DD&toDate=YYYY-MM-DD as inclusive
// calendar bounds in the configured zone: from midnight of fromDate up
// to the last instant of toDate.
func parseRange(c *fiber.Ctx, cfg *config.Config) (time.Time, time.Time, error) {
	fromStr := c.Query("fromDate")
	toStr := c.Query("toDate")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "fromDate and toDate are required (YYYY-MM-DD)")
	}

	from, err := time.ParseInLocation("2006-01-02", fromStr, cfg.Location)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "fromDate is invalid")
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, cfg.Location)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "toDate is invalid")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "toDate must not be before fromDate")
	}

	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to, nil
}

// GET /api/indicators/dashboard?fromDate=2024-01-01&toDate=2024-01-31
func DashboardHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := parseRange(c, cfg)
		if err != nil {
			return err
		}

		report, err := ComputeIndicators(database.DB, cfg.Location, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute indicators")
		}

		return c.JSON(fiber.Map{
			"data":    report,
			"message": "Get dashboard indicators successfully",
		})
	}
}
