package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/models"
	service "github.com/zdziszkee/swiftcodes/internal/services"
)

const (
	msgInternal       = "Internal Server Error"
	msgEmptyStore     = "Something went wrong! try again later! Internal Server Error"
	msgProvideCode    = "Provide swift code"
	msgFillAllInputs  = "Fill all the required inputs, see example below"
	msgCreated        = "Swift code added successfully"
	msgCodeNotFound   = "Details not found for swift code: %s"
	msgCountryMissing = "No swift codes found for Country ISO2 code: %s"
	msgDeleteMissing  = "Swift code %s not found"
	msgDeleted        = "Swift code %s deleted successfully"
	msgAlreadyExists  = "Details with %s already exists, you can't add new details with the same swift code, swift codes should be unique"
)

// ExamplePayload is returned with validation failures to show a well formed body
var ExamplePayload = fiber.Map{
	"address":       "UL Paradise 7",
	"bankName":      "Heaven Bank",
	"countryISO2":   "KG",
	"countryName":   "Kyrgyzstan",
	"isHeadquarter": true,
	"swiftCode":     "FHLELGXX",
}

// SwiftHandler handles API requests for SWIFT codes
type SwiftHandler struct {
	service service.SwiftService
}

// NewSwiftHandler creates a new handler instance
func NewSwiftHandler(service service.SwiftService) *SwiftHandler {
	return &SwiftHandler{service: service}
}

// GetInitial handles requests for the first few stored codes
func (h *SwiftHandler) GetInitial(c fiber.Ctx) error {
	codes, err := h.service.GetInitialSwiftCodes(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			log.Warn().Str("request_id", requestid.FromContext(c)).Msg("initial listing requested on an empty store")
			return message(c, fiber.StatusInternalServerError, msgEmptyStore)
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(codes)
}

// GetByCode handles requests for a specific SWIFT code
func (h *SwiftHandler) GetByCode(c fiber.Ctx) error {
	code := c.Params("swiftCode")

	details, err := h.service.GetSwiftCodeDetails(c.Context(), code)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(details)
	case errors.Is(err, service.ErrInvalidInput):
		return message(c, fiber.StatusBadRequest, msgProvideCode)
	case errors.Is(err, service.ErrNotFound):
		return message(c, fiber.StatusNotFound, fmt.Sprintf(msgCodeNotFound, code))
	default:
		return internalError(c, err)
	}
}

// GetByCountry handles requests for all SWIFT codes by country
func (h *SwiftHandler) GetByCountry(c fiber.Ctx) error {
	countryISO2 := strings.ToUpper(c.Params("countryISO2code"))

	codes, err := h.service.GetSwiftCodesByCountry(c.Context(), countryISO2)
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(codes)
	case errors.Is(err, service.ErrCountryNotFound):
		return message(c, fiber.StatusNotFound, fmt.Sprintf(msgCountryMissing, countryISO2))
	default:
		return internalError(c, err)
	}
}

// Create handles creation of a new SWIFT code
func (h *SwiftHandler) Create(c fiber.Ctx) error {
	req, decodeErr := h.decodeCreateRequest(c)
	if decodeErr != nil {
		return validationFailed(c, decodeErr)
	}

	created, err := h.service.CreateSwiftCode(c.Context(), req)
	var validationErr *service.ValidationError
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": msgCreated,
			"record":  created,
		})
	case errors.As(err, &validationErr):
		return validationFailed(c, validationErr)
	case errors.Is(err, service.ErrAlreadyExists):
		return message(c, fiber.StatusConflict, fmt.Sprintf(msgAlreadyExists, strings.TrimSpace(*req.SwiftCode)))
	default:
		return internalError(c, err)
	}
}

// Delete handles deletion of a SWIFT code
func (h *SwiftHandler) Delete(c fiber.Ctx) error {
	code := c.Params("swiftCode")

	err := h.service.DeleteSwiftCode(c.Context(), code)
	switch {
	case err == nil:
		return message(c, fiber.StatusOK, fmt.Sprintf(msgDeleted, code))
	case errors.Is(err, service.ErrInvalidInput):
		return message(c, fiber.StatusBadRequest, msgProvideCode)
	case errors.Is(err, service.ErrNotFound):
		return message(c, fiber.StatusNotFound, fmt.Sprintf(msgDeleteMissing, code))
	default:
		return internalError(c, err)
	}
}

// decodeCreateRequest reports malformed bodies and mistyped fields as validation errors
func (h *SwiftHandler) decodeCreateRequest(c fiber.Ctx) (*models.CreateSwiftCodeRequest, *service.ValidationError) {
	var req models.CreateSwiftCodeRequest

	err := c.App().Config().JSONDecoder(c.Body(), &req)
	if err == nil {
		return &req, nil
	}

	// an empty Field means the body itself is not an object
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return nil, service.NewTypeError(typeErr.Field, typeErr.Type.String())
	}
	return nil, &service.ValidationError{Fields: []service.FieldError{{Field: "body", Reason: "must be a JSON object"}}}
}

func validationFailed(c fiber.Ctx, err *service.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": msgFillAllInputs + ". Invalid fields: " + strings.Join(err.FieldNames(), ", "),
		"example": ExamplePayload,
	})
}

func internalError(c fiber.Ctx, err error) error {
	log.Error().
		Err(err).
		Str("request_id", requestid.FromContext(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return message(c, fiber.StatusInternalServerError, msgInternal)
}

func message(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
