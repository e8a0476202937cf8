package auth

import (
	"strings"
	"time"

	"quanan-backend/internal/config"
	"quanan-backend/internal/database"
	"quanan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var account models.Account
		if err := database.DB.Where("email = ?", body.Email).First(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect email or password")
		}

		accessToken, err := SignToken(cfg.JWTSecret, account.ID, account.Role, TokenTypeAccess, cfg.AccessTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}
		refreshToken, err := SignToken(cfg.JWTSecret, account.ID, account.Role, TokenTypeRefresh, cfg.RefreshTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}

		row := models.RefreshToken{
			Token:     refreshToken,
			AccountID: account.ID,
			ExpiresAt: time.Now().Add(cfg.RefreshTokenTTL),
		}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not persist session")
		}

		return c.JSON(fiber.Map{
			"account":       account,
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshTokenRequest
		if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "refresh_token is required")
		}

		database.DB.Where("token = ?", body.RefreshToken).Delete(&models.RefreshToken{})

		return c.JSON(fiber.Map{"message": "Logout successful"})
	}
}

func RefreshTokenHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RefreshTokenRequest
		if err := c.BodyParser(&body); err != nil || body.RefreshToken == "" {
			return fiber.NewError(fiber.StatusBadRequest, "refresh_token is required")
		}

		claims, err := ParseToken(cfg.JWTSecret, body.RefreshToken, TokenTypeRefresh)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token is invalid")
		}

		var row models.RefreshToken
		if err := database.DB.Preload("Account").Where("token = ?", body.RefreshToken).First(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token is not registered")
		}

		account := row.Account
		newAccessToken, err := SignToken(cfg.JWTSecret, account.ID, account.Role, TokenTypeAccess, cfg.AccessTokenTTL)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}
		// rotation keeps the original session expiry
		newRefreshToken, err := SignTokenWithExpiry(cfg.JWTSecret, account.ID, account.Role, TokenTypeRefresh, claims.ExpiresAt.Time)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sign token")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rotate session")
		}
		if err := tx.Delete(&row).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rotate session")
		}
		if err := tx.Create(&models.RefreshToken{
			Token:     newRefreshToken,
			AccountID: account.ID,
			ExpiresAt: row.ExpiresAt,
		}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rotate session")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not rotate session")
		}

		return c.JSON(fiber.Map{
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
		})
	}
}

func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return err
		}

		var account models.Account
		if err := database.DB.First(&account, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		return c.JSON(account)
	}
}
