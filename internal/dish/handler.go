package dish

import (
	"quanan-backend/internal/database"
	"quanan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateDishRequest struct {
	Name        string            `json:"name"`
	Price       int64             `json:"price"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Status      models.DishStatus `json:"status"`
}

type UpdateDishRequest struct {
	Name        *string            `json:"name"`
	Price       *int64             `json:"price"`
	Description *string            `json:"description"`
	Image       *string            `json:"image"`
	Status      *models.DishStatus `json:"status"`
}

func validStatus(s models.DishStatus) bool {
	switch s {
	case models.DishStatusAvailable, models.DishStatusUnavailable, models.DishStatusHidden:
		return true
	}
	return false
}

// GET /api/dishes
func ListDishesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var dishes []models.Dish
		if err := database.DB.Order("id ASC").Find(&dishes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load dishes")
		}
		return c.JSON(fiber.Map{"data": dishes})
	}
}

// GET /api/dishes/:id
func GetDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dish id is invalid")
		}

		var d models.Dish
		if err := database.DB.First(&d, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dish not found")
		}
		return c.JSON(fiber.Map{"data": d})
	}
}

// POST /api/dishes
func CreateDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
		}
		if body.Status == "" {
			body.Status = models.DishStatusAvailable
		}
		if !validStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Dish status is invalid")
		}

		d := models.Dish{
			Name:        body.Name,
			Price:       body.Price,
			Description: body.Description,
			Image:       body.Image,
			Status:      body.Status,
		}
		if err := database.DB.Create(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create dish")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": d})
	}
}

// PUT /api/dishes/:id
// Edits only touch the live dish; snapshots taken by past orders are
// immutable on purpose.
func UpdateDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dish id is invalid")
		}

		var body UpdateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var d models.Dish
		if err := database.DB.First(&d, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dish not found")
		}

		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name must not be empty")
			}
			d.Name = *body.Name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
			}
			d.Price = *body.Price
		}
		if body.Description != nil {
			d.Description = *body.Description
		}
		if body.Image != nil {
			d.Image = *body.Image
		}
		if body.Status != nil {
			if !validStatus(*body.Status) {
				return fiber.NewError(fiber.StatusBadRequest, "Dish status is invalid")
			}
			d.Status = *body.Status
		}

		if err := database.DB.Save(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update dish")
		}
		return c.JSON(fiber.Map{"data": d})
	}
}

// DELETE /api/dishes/:id
func DeleteDishHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Dish id is invalid")
		}

		var d models.Dish
		if err := database.DB.First(&d, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dish not found")
		}

		// snapshots referencing this dish get a nil back-reference via
		// the FK and keep every charged price intact
		if err := database.DB.Delete(&d).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete dish")
		}
		return c.JSON(fiber.Map{"data": d, "message": "Dish deleted"})
	}
}
