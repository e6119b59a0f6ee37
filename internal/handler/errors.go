package handler

import "github.com/gofiber/fiber/v3"

// ErrInvalidQueryParameters indicates that the request query string could not
// be parsed into the expected structure.
var ErrInvalidQueryParameters = fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")

// ErrSameAddresses is returned when token and reserve_token addresses are
// identical.
var ErrSameAddresses = fiber.NewError(fiber.StatusBadRequest, "token and reserve_token addresses cannot be the same")

// ErrAmountRequired is returned when the amount parameter is missing.
var ErrAmountRequired = fiber.NewError(fiber.StatusBadRequest, "amount is required")

// ErrInvalidAmountFormat is returned when the amount cannot be parsed as a
// base-10 unsigned 256-bit integer.
var ErrInvalidAmountFormat = fiber.NewError(fiber.StatusBadRequest, "invalid amount format")

// ErrRatioRequired is returned when the ratio parameter is missing.
var ErrRatioRequired = fiber.NewError(fiber.StatusBadRequest, "ratio is required")

// ErrInvalidRatio is returned when the ratio cannot be parsed or falls
// outside (0, 1000000] ppm.
var ErrInvalidRatio = fiber.NewError(fiber.StatusBadRequest, "ratio must be an integer in (0, 1000000] ppm")

// ErrZeroSupplyBadRequest maps a zero on-chain token supply to a 400 error.
var ErrZeroSupplyBadRequest = fiber.NewError(fiber.StatusBadRequest, "smart token has zero supply")

// ErrZeroReserveBadRequest maps an empty converter reserve to a 400 error.
var ErrZeroReserveBadRequest = fiber.NewError(fiber.StatusBadRequest, "converter reserve is empty")

// ErrInvalidConversionBadRequest maps a formula precondition failure to a 400
// error.
var ErrInvalidConversionBadRequest = fiber.NewError(fiber.StatusBadRequest, "invalid conversion arguments")

// ErrAmountOutOfRange maps overflow and precision-range failures to a 400
// error: the requested conversion is outside the safely representable domain.
var ErrAmountOutOfRange = fiber.NewError(fiber.StatusBadRequest, "conversion amount outside the representable range")

// ErrConversionFailedInternal signals a generic server-side conversion error.
var ErrConversionFailedInternal = fiber.NewError(fiber.StatusInternalServerError, "conversion failed")

// NewAddressRequired returns a 400 Bad Request for a missing address field.
func NewAddressRequired(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, field+" address is required")
}

// NewInvalidAddress returns a 400 Bad Request for an invalid address format.
func NewInvalidAddress(field string) error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid "+field+" address")
}
