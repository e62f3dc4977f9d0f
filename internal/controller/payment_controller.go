package controller

import (
	"errors"
	"log"
	"strconv"

	"estateport_backend/internal/model"
	"estateport_backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	paymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// HandleWebhook gateway'in asenkron ödeme bildirimi. Her durumda 200
// döner: hata fırlatmak gateway'in retry fırtınasına yol açar, mutabakat
// zaten bir sonraki teslimde güvenle tekrarlanabilir.
func (ctl *PaymentController) HandleWebhook(c *fiber.Ctx) error {
	if err := ctl.paymentService.HandleWebhook(c.Body()); err != nil {
		log.Printf("Webhook reconciliation error: %v", err)
		if errors.Is(err, service.ErrGateway) {
			// doğrulanamayan payload'a veri sızdırma
			return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse("invalid webhook payload"))
		}
	}
	return c.JSON(model.SuccessResponse(nil, "received"))
}

// PaymentReturn kullanıcı ödeme sonrası geri döndüğünde işlem durumunu verir
func (ctl *PaymentController) PaymentReturn(c *fiber.Ctx) error {
	orderCode, err := strconv.ParseInt(c.Query("orderCode"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse("invalid order code"))
	}

	txn, err := ctl.paymentService.PaymentStatus(orderCode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse("transaction not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse("could not load transaction"))
	}

	return c.JSON(model.SuccessResponse(fiber.Map{
		"transaction_code": txn.Code,
		"status":           txn.Status,
		"amount":           txn.Amount,
		"currency":         txn.Currency,
		"notes":            txn.Notes,
	}, "payment result"))
}

// PaymentCancel kullanıcı checkout'tan vazgeçti
func (ctl *PaymentController) PaymentCancel(c *fiber.Ctx) error {
	orderCode, err := strconv.ParseInt(c.Query("orderCode"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse("invalid order code"))
	}

	if err := ctl.paymentService.CancelCheckout(orderCode, "cancelled at checkout"); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse("transaction not found"))
		}
		if errors.Is(err, service.ErrInvalidState) {
			return c.Status(fiber.StatusConflict).JSON(model.ErrorResponse("payment already finalized"))
		}
		log.Printf("Could not cancel checkout for order %d: %v", orderCode, err)
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse("could not cancel payment"))
	}

	return c.JSON(model.SuccessResponse(nil, "payment cancelled"))
}
