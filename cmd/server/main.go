package main

import (
	"errors"
	"log"
	"strings"

	"quanan-backend/internal/account"
	"quanan-backend/internal/apperrors"
	"quanan-backend/internal/auth"
	"quanan-backend/internal/config"
	"quanan-backend/internal/database"
	"quanan-backend/internal/dish"
	"quanan-backend/internal/guest"
	"quanan-backend/internal/indicator"
	"quanan-backend/internal/media"
	"quanan-backend/internal/models"
	"quanan-backend/internal/notify"
	"quanan-backend/internal/order"
	"quanan-backend/internal/table"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	if err := notify.Init(cfg); err != nil {
		log.Fatalf("notification broker: %v", err)
	}
	defer notify.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			switch {
			case apperrors.IsNotFound(err):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case apperrors.IsInvalidState(err):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case apperrors.IsTxAbort(err):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Could not commit, please retry the whole submission"})
			}
			log.Println("unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Static("/static", cfg.DishImagePath)

	api := app.Group("/api")

	// Staff auth
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/logout", auth.LogoutHandler())
	api.Post("/auth/refresh-token", auth.RefreshTokenHandler(cfg))

	// Guest auth (the QR-code flow)
	api.Post("/guest/auth/login", guest.LoginHandler(cfg))
	api.Post("/guest/auth/refresh-token", guest.RefreshTokenHandler(cfg))

	// Public menu and table lookup
	api.Get("/dishes", dish.ListDishesHandler())
	api.Get("/dishes/:id", dish.GetDishHandler())

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	// Guest session routes
	guestRoutes := protected.Group("/guest")
	guestRoutes.Use(auth.RequireRole(models.RoleGuest))
	guestRoutes.Post("/auth/logout", guest.LogoutHandler())
	guestRoutes.Post("/orders", guest.CreateOrdersHandler())
	guestRoutes.Get("/orders", guest.GetOrdersHandler())

	// Everything below is staff only
	staff := protected.Group("")
	staff.Use(auth.RequireRole(models.RoleOwner, models.RoleEmployee))

	staff.Get("/accounts/me", auth.MeHandler())
	staff.Put("/accounts/change-password", account.ChangePasswordHandler())
	staff.Get("/accounts/guests", account.ListGuestsHandler(cfg))

	// Employee account management
	ownerRoutes := staff.Group("/accounts")
	ownerRoutes.Use(auth.RequireRole(models.RoleOwner))
	ownerRoutes.Get("/", account.ListAccountsHandler())
	ownerRoutes.Post("/", account.CreateEmployeeHandler())
	ownerRoutes.Get("/detail/:id", account.GetAccountHandler())
	ownerRoutes.Put("/detail/:id", account.UpdateEmployeeHandler())
	ownerRoutes.Delete("/detail/:id", account.DeleteEmployeeHandler())

	// Table management
	staff.Get("/tables", table.ListTablesHandler())
	staff.Get("/tables/:number", table.GetTableHandler())
	staff.Post("/tables", table.CreateTableHandler())
	staff.Put("/tables/:number", table.UpdateTableHandler())
	staff.Delete("/tables/:number", table.DeleteTableHandler())

	// Dish management
	staff.Post("/dishes", dish.CreateDishHandler())
	staff.Put("/dishes/:id", dish.UpdateDishHandler())
	staff.Delete("/dishes/:id", dish.DeleteDishHandler())

	// Media upload
	staff.Post("/media/upload", media.UploadImageHandler(cfg))

	// Orders (staff side)
	staff.Get("/orders", order.ListOrdersHandler(cfg))
	staff.Get("/orders/:id", order.GetOrderHandler())
	staff.Put("/orders/:id", order.UpdateOrderHandler())
	staff.Post("/orders/pay", order.PayGuestOrdersHandler())

	// Dashboard
	staff.Get("/indicators/dashboard", indicator.DashboardHandler(cfg))
	staff.Get("/indicators/dashboard/export", indicator.ExportHandler(cfg))

	log.Println("server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
