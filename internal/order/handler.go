package order

import (
	"log"
	"time"

	"quanan-backend/internal/auth"
	"quanan-backend/internal/config"
	"quanan-backend/internal/database"
	"quanan-backend/internal/models"
	"quanan-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type UpdateOrderRequest struct {
	Status   models.OrderStatus `json:"status"`
	DishID   *uint              `json:"dish_id"`
	Quantity *int               `json:"quantity"`
}

type PayGuestOrdersRequest struct {
	GuestID uint `json:"guest_id"`
}

// GET /api/orders?fromDate=...&toDate=...
func ListOrdersHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.
			Preload("DishSnapshot").
			Preload("Guest").
			Preload("OrderHandler").
			Order("created_at DESC")

		if fromStr := c.Query("fromDate"); fromStr != "" {
			from, err := time.ParseInLocation("2006-01-02", fromStr, cfg.Location)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "fromDate is invalid")
			}
			q = q.Where("created_at >= ?", from)
		}
		if toStr := c.Query("toDate"); toStr != "" {
			to, err := time.ParseInLocation("2006-01-02", toStr, cfg.Location)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "toDate is invalid")
			}
			q = q.Where("created_at <= ?", to.AddDate(0, 0, 1).Add(-time.Nanosecond))
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load orders")
		}

		return c.JSON(fiber.Map{"data": orders})
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Order id is invalid")
		}

		var ord models.Order
		err = database.DB.
			Preload("DishSnapshot").
			Preload("Guest").
			Preload("OrderHandler").
			First(&ord, id).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		return c.JSON(fiber.Map{"data": ord})
	}
}

// PUT /api/orders/:id
func UpdateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Order id is invalid")
		}

		handlerID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body UpdateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		ord, err := Update(database.DB, uint(id), UpdateParams{
			Status:    body.Status,
			DishID:    body.DishID,
			Quantity:  body.Quantity,
			HandlerID: handlerID,
		})
		if err != nil {
			return err
		}

		if err := notify.OrderStatusChanged(*ord); err != nil {
			log.Printf("order notification failed: %v", err)
		}

		return c.JSON(fiber.Map{
			"data":    ord,
			"message": "Order updated successfully",
		})
	}
}

// POST /api/orders/pay
func PayGuestOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		handlerID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body PayGuestOrdersRequest
		if err := c.BodyParser(&body); err != nil || body.GuestID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "guest_id is required")
		}

		orders, err := PayGuestOrders(database.DB, body.GuestID, handlerID)
		if err != nil {
			return err
		}

		if err := notify.OrdersPaid(orders); err != nil {
			log.Printf("order notification failed: %v", err)
		}

		return c.JSON(fiber.Map{
			"data":    orders,
			"message": "Orders paid successfully",
		})
	}
}
