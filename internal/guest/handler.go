package guest

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

type GuestLoginRequest struct {
	Name        string `json:"name"`
	TableNumber int    `json:"table_number"`
	Token       string `json:"token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// POST /api/guest/auth/login
// A guest sits down, scans the table QR (number + token) and gets a
// session. Hidden and reserved tables refuse logins outright.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body GuestLoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		var table models.Table
		if err := database.DB.Where("number = ? AND token = ?", body.TableNumber, body.Token).First(&table).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Table does not exist or token is incorrect")
		}
		if table.Status == models.TableStatusHidden {
			return fiber.NewError(fiber.StatusBadRequest, "This table is hidden, please choose another table")
		}
		if table.Status == models.TableStatusReserved {
			return fiber.NewError(fiber.StatusBadRequest, "This table is reserved, please contact staff")
		}

		guest := models.Guest{
			Name:        body.Name,
			TableNumber: &table.Number,
		}
		if err := database.DB.Create(&guest).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create guest session")
		}

		accessToken, err := auth.SignToken(cfg.JWTSecret, guest.ID, models.RoleGuest, auth.TokenTypeAccess, cfg.GuestAccessTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}
		refreshToken, err := auth.SignToken(cfg.JWTSecret, guest.ID, models.RoleGuest, auth.TokenTypeRefresh, cfg.GuestRefreshTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}

		expiresAt := time.Now().Add(cfg.GuestRefreshTokenTTL)
		guest.RefreshToken = &refreshToken
		guest.RefreshTokenExpiresAt = &expiresAt
		if err := database.DB.Save(&guest).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not persist guest session")
		}

		return c.JSON(fiber.Map{
			"guest":         guest,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// POST /api/guest/auth/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		guestID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		err = database.DB.Model(&models.Guest{}).Where("id = ?", guestID).
			Updates(map[string]interface{}{
				"refresh_token":            nil,
				"refresh_token_expires_at": nil,
			}).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not log out")
		}

		return c.JSON(fiber.Map{"message": "Logout successful"})
	}
}

// POST /api/guest/auth/refresh-token
func RefreshTokenHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshTokenRequest
		if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "refresh_token is required")
		}

		claims, err := auth.ParseToken(cfg.JWTSecret, body.RefreshToken, auth.TokenTypeRefresh)
		if err != nil || claims.Role != models.RoleGuest {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token is invalid")
		}

		var guest models.Guest
		if err := database.DB.First(&guest, claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Guest session not found")
		}
		if guest.RefreshToken == nil || *guest.RefreshToken != body.RefreshToken {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token is not registered")
		}

		newAccessToken, err := auth.SignToken(cfg.JWTSecret, guest.ID, models.RoleGuest, auth.TokenTypeAccess, cfg.GuestAccessTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}
		newRefreshToken, err := auth.SignTokenWithExpiry(cfg.JWTSecret, guest.ID, models.RoleGuest, auth.TokenTypeRefresh, claims.ExpiresAt.Time)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}

		guest.RefreshToken = &newRefreshToken
		if err := database.DB.Save(&guest).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rotate guest session")
		}

		return c.JSON(fiber.Map{
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
		})
	}
}

// POST /api/guest/orders
func CreateOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		guestID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var items []LineItem
		if err := c.BodyParser(&items); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		orders, err := PlaceOrders(database.DB, guestID, items)
		if err != nil {
			return err
		}

		// side effect only; a dead broker must not fail the order
		if err := notify.OrdersCreated(orders); err != nil {
			log.Printf("order notification failed: %v", err)
		}

		return c.JSON(fiber.Map{
			"data":    orders,
			"message": "Orders placed successfully",
		})
	}
}

// GET /api/guest/orders
func GetOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		guestID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		orders, err := ListOrders(database.DB, guestID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load orders")
		}

		return c.JSON(fiber.Map{"data": orders})
	}
}
