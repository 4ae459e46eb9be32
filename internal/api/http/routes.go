package httpapi

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	api := app.Group("/api/weather")

	lookup := func(c *fiber.Ctx) error {
		var req lookupRequest
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.LookupWeather(c.UserContext(), req.City)
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(report)
	}

	api.Post("/", lookup)
	api.Get("/", lookup)

	api.Get("/history", func(c *fiber.Ctx) error {
		return c.JSON(service.ListHistory(c.UserContext()))
	})

	api.Delete("/history/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		removed, err := service.DeleteHistory(c.UserContext(), id)
		if err != nil {
			return toHTTPError(err)
		}
		if !removed {
			return fiber.NewError(fiber.StatusNotFound, "city not found in search history")
		}
		return c.JSON(fiber.Map{"message": "city removed from search history", "id": id})
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// toHTTPError maps the service error kinds onto status codes.
func toHTTPError(err error) error {
	var (
		ve *weather.ValidationError
		nf *weather.NotFoundError
		ue *weather.UpstreamError
		pe *store.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		return fiber.NewError(fiber.StatusNotFound, nf.Error())
	case errors.As(err, &ue):
		if ue.Timeout {
			return fiber.NewError(fiber.StatusGatewayTimeout, "weather provider timed out")
		}
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	case errors.As(err, &pe):
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save search history")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to get weather data")
	}
}

// lookupRequest is the body of POST /api/weather or the query of GET.
type lookupRequest struct {
	City string `json:"city" form:"city" query:"city" validate:"required,max=100"`
}

func (r *lookupRequest) bind(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		r.City = c.Query("city")
	} else if err := c.BodyParser(r); err != nil {
		return errors.New("request body must contain a city")
	}

	r.City = strings.TrimSpace(r.City)
	if err := validate.Struct(r); err != nil {
		return errors.New("city name is required and must be at most 100 characters")
	}
	return nil
}
