package account

import (
	"strings"
	"time"

	"quanan-backend/internal/auth"
	"quanan-backend/internal/config"
	"quanan-backend/internal/database"
	"quanan-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type CreateEmployeeRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// GET /api/accounts
func ListAccountsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accounts []models.Account
		if err := database.DB.Where("role = ?", models.RoleEmployee).Order("id ASC").Find(&accounts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load accounts")
		}
		return c.JSON(fiber.Map{"data": accounts})
	}
}

// POST /api/accounts
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and email are required")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		account := models.Account{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Avatar:       body.Avatar,
			Role:         models.RoleEmployee,
		}
		if err := database.DB.Create(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Email already in use")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": account})
	}
}

// GET /api/accounts/detail/:id
func GetAccountHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Account id is invalid")
		}

		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		return c.JSON(fiber.Map{"data": account})
	}
}

// PUT /api/accounts/detail/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Account id is invalid")
		}

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}

		if body.Name != nil {
			account.Name = *body.Name
		}
		if body.Avatar != nil {
			account.Avatar = *body.Avatar
		}
		if body.Password != nil {
			if len(*body.Password) < 6 {
				return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
			}
			account.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update account")
		}
		return c.JSON(fiber.Map{"data": account})
	}
}

// DELETE /api/accounts/detail/:id
func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Account id is invalid")
		}

		var account models.Account
		if err := database.DB.First(&account, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		if account.Role == models.RoleOwner {
			return fiber.NewError(fiber.StatusForbidden, "Owner account cannot be deleted")
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not start transaction")
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete account sessions")
		}
		// orders they handled keep the reference for the books
		if err := tx.Delete(&account).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete account")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete account")
		}

		return c.JSON(fiber.Map{"data": account, "message": "Account deleted"})
	}
}

// PUT /api/accounts/change-password
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.NewPassword) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 6 characters")
		}

		var account models.Account
		if err := database.DB.First(&account, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Account not found")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(body.OldPassword)); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Old password is incorrect")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}
		account.PasswordHash = string(hash)

		if err := database.DB.Save(&account).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not change password")
		}
		return c.JSON(fiber.Map{"message": "Password changed successfully"})
	}
}

// GET /api/accounts/guests?fromDate=...&toDate=...
// Back-office view of guest sessions for the dashboard's date range.
func ListGuestsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")

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

		var guests []models.Guest
		if err := q.Find(&guests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load guests")
		}
		return c.JSON(fiber.Map{"data": guests})
	}
}
