package table

import (
	"strings"

	"quanan-backend/internal/database"
	"quanan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateTableRequest struct {
	Number   int                `json:"number"`
	Capacity int                `json:"capacity"`
	Status   models.TableStatus `json:"status"`
}

type UpdateTableRequest struct {
	Capacity    *int                `json:"capacity"`
	Status      *models.TableStatus `json:"status"`
	ChangeToken bool                `json:"change_token"`
}

func validStatus(s models.TableStatus) bool {
	switch s {
	case models.TableStatusAvailable, models.TableStatusHidden, models.TableStatusReserved:
		return true
	}
	return false
}

// Tokens go into table QR codes; rotating one invalidates every code
// printed for that table.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GET /api/tables
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tables []models.Table
		if err := database.DB.Order("number ASC").Find(&tables).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load tables")
		}
		return c.JSON(fiber.Map{"data": tables})
	}
}

// GET /api/tables/:number
func GetTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := c.ParamsInt("number")
		if err != nil || number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Table number is invalid")
		}

		var table models.Table
		if err := database.DB.First(&table, "number = ?", number).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}
		return c.JSON(fiber.Map{"data": table})
	}
}

// POST /api/tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Table number must be positive")
		}
		if body.Capacity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Capacity must be positive")
		}
		if body.Status == "" {
			body.Status = models.TableStatusAvailable
		}
		if !validStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Table status is invalid")
		}

		table := models.Table{
			Number:   body.Number,
			Capacity: body.Capacity,
			Status:   body.Status,
			Token:    newToken(),
		}
		if err := database.DB.Create(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Table number already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": table})
	}
}

// PUT /api/tables/:number
func UpdateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := c.ParamsInt("number")
		if err != nil || number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Table number is invalid")
		}

		var body UpdateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var table models.Table
		if err := database.DB.First(&table, "number = ?", number).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}

		if body.Capacity != nil {
			if *body.Capacity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Capacity must be positive")
			}
			table.Capacity = *body.Capacity
		}
		if body.Status != nil {
			if !validStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Table status is invalid")
			}
			table.Status = *body.Status
		}
		if body.ChangeToken {
			table.Token = newToken()
		}

		if err := database.DB.Save(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update table")
		}
		return c.JSON(fiber.Map{"data": table})
	}
}

// DELETE /api/tables/:number
// Active guest sessions at the table are detached (table number goes
// nil) so their next order attempt tells them to log in again.
// Historical orders keep the table number they were served at.
func DeleteTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := c.ParamsInt("number")
		if err != nil || number <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Table number is invalid")
		}

		var table models.Table
		if err := database.DB.First(&table, "number = ?", number).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not start transaction")
		}

		if err := tx.Model(&models.Guest{}).Where("table_number = ?", number).
			Update("table_number", nil).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not detach guests")
		}

		if err := tx.Delete(&table).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete table")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete table")
		}

		return c.JSON(fiber.Map{"data": table, "message": "Table deleted"})
	}
}
