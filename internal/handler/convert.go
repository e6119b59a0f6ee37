package handler

import (
	"context"
	"strconv"

	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/holiman/uint256"

	"github.com/eduales99/bancor-protocol-contracts/internal/service"
	"github.com/eduales99/bancor-protocol-contracts/pkg/bancor"
)

type ConvertHandler struct {
	BaseHandler
	service *service.ConvertService
}

func NewConvertHandler(logger *slog.Logger, svc *service.ConvertService) *ConvertHandler {
	return &ConvertHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service: svc,
	}
}

type ConvertRequest struct {
	Token        string `query:"token" json:"token"`
	ReserveToken string `query:"reserve_token" json:"reserve_token"`
	Converter    string `query:"converter" json:"converter"`
	Ratio        string `query:"ratio" json:"ratio"`
	Amount       string `query:"amount" json:"amount"`
}

type convertFunc func(ctx context.Context, token, reserveToken, converter common.Address, reserveRatio uint32, amount *uint256.Int) (*uint256.Int, error)

// HandlePurchase serves purchase-return estimations: the amount of smart
// tokens minted for a reserve deposit.
func (h *ConvertHandler) HandlePurchase() fiber.Handler {
	return h.handle("purchase", h.service.PurchaseReturn)
}

// HandleSale serves sale-return estimations: the amount of reserve released
// for selling smart tokens.
func (h *ConvertHandler) HandleSale() fiber.Handler {
	return h.handle("sale", h.service.SaleReturn)
}

func (h *ConvertHandler) handle(op string, convert convertFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		token := common.HexToAddress(req.Token)
		reserveToken := common.HexToAddress(req.ReserveToken)
		converter := common.HexToAddress(req.Converter)

		ratio, err := h.parseRatio(req.Ratio)
		if err != nil {
			return err
		}
		amount, err := h.parseAmount(req.Amount)
		if err != nil {
			return err
		}

		out, err := convert(context.Background(), token, reserveToken, converter, ratio, amount)
		if err != nil {
			return h.handleServiceError(err)
		}

		h.logger.Debug("conversion computed", "op", op, "token", req.Token, "ratio", ratio, "in", amount.Dec(), "out", out.Dec())
		return c.SendString(out.Dec())
	}
}

func (h *ConvertHandler) parseAndValidateRequest(c fiber.Ctx) (*ConvertRequest, error) {
	var req ConvertRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	if err := h.validateAddresses(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

func (h *ConvertHandler) validateAddresses(req *ConvertRequest) error {
	addresses := map[string]string{
		"token":         req.Token,
		"reserve_token": req.ReserveToken,
		"converter":     req.Converter,
	}

	for field, addr := range addresses {
		if addr == "" {
			return NewAddressRequired(field)
		}
		if !common.IsHexAddress(addr) {
			return NewInvalidAddress(field)
		}
	}

	if req.Token == req.ReserveToken {
		return ErrSameAddresses
	}

	return nil
}

func (h *ConvertHandler) parseRatio(ratioStr string) (uint32, error) {
	if ratioStr == "" {
		return 0, ErrRatioRequired
	}

	ratio, err := strconv.ParseUint(ratioStr, 10, 32)
	if err != nil || ratio == 0 || ratio > bancor.MaxCRR {
		return 0, ErrInvalidRatio
	}

	return uint32(ratio), nil
}

func (h *ConvertHandler) parseAmount(amountStr string) (*uint256.Int, error) {
	if amountStr == "" {
		return nil, ErrAmountRequired
	}

	// Zero is a valid amount: the conversion return is defined to be zero.
	amount, err := uint256.FromDecimal(amountStr)
	if err != nil {
		return nil, ErrInvalidAmountFormat
	}

	return amount, nil
}

func (h *ConvertHandler) handleServiceError(err error) error {
	switch err {
	case service.ErrZeroSupply:
		return ErrZeroSupplyBadRequest
	case service.ErrZeroReserve:
		return ErrZeroReserveBadRequest
	case bancor.ErrInvalidArgument:
		return ErrInvalidConversionBadRequest
	case bancor.ErrArithmeticOverflow, bancor.ErrArithmeticUnderflow, bancor.ErrPrecisionRangeExceeded:
		return ErrAmountOutOfRange
	default:
		h.logger.Error("service conversion failed", "err", err)
		return ErrConversionFailedInternal
	}
}
