package router

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rs/zerolog/log"

	handler "github.com/zdziszkee/swiftcodes/internal/api/handlers"
	"github.com/zdziszkee/swiftcodes/internal/api/middleware"
)

// DefaultBasePath is where the SWIFT code routes are mounted when none is configured
const DefaultBasePath = "/v1/swift-codes"

// Options configures the application built by SetupRoutes
type Options struct {
	AppName  string
	BasePath string
}

// SetupRoutes configures all API routes
func SetupRoutes(swiftHandler *handler.SwiftHandler, opts Options) *fiber.App {
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}

	app := fiber.New(fiber.Config{
		AppName: opts.AppName,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			} else {
				log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			}

			return c.Status(code).JSON(fiber.Map{
				"message": message,
			})
		},
	})

	// Add global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New())

	swiftCodes := app.Group(opts.BasePath)

	swiftCodes.Get("/", swiftHandler.GetInitial)
	swiftCodes.Get("/country/:countryISO2code", swiftHandler.GetByCountry)
	swiftCodes.Get("/:swiftCode", swiftHandler.GetByCode)
	swiftCodes.Post("/", swiftHandler.Create)
	swiftCodes.Delete("/:swiftCode", swiftHandler.Delete)
	return app
}
