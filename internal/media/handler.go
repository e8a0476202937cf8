package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quanan-backend/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// POST /api/media/upload
// Stores a dish photo on disk and returns the static URL the dish
// record should carry.
func UploadImageHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File is required")
		}
		if fileHeader.Size > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "File exceeds the 10MB limit")
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedExtensions[ext] {
			return fiber.NewError(fiber.StatusBadRequest, "Only jpg, jpeg, png and webp files are allowed")
		}

		if err := os.MkdirAll(cfg.DishImagePath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not prepare upload directory")
		}

		name := uuid.NewString() + ext
		dst := filepath.Join(cfg.DishImagePath, name)
		if err := c.SaveFile(fileHeader, dst); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save file")
		}

		return c.JSON(fiber.Map{
			"data":    fmt.Sprintf("/static/%s", name),
			"message": "Upload successful",
		})
	}
}
