package payment

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/payOSHQ/payos-lib-golang"
)

// PayOSGateway PayOS checkout linkleri üzerinden çalışan gateway adaptörü.
// İmza doğrulaması dahil tüm kripto işlemleri SDK'ya bırakılır.
type PayOSGateway struct {
	returnURL string
	cancelURL string
}

func NewPayOSGateway(clientID, apiKey, checksumKey, returnURL, cancelURL string) (*PayOSGateway, error) {
	if err := payos.Key(clientID, apiKey, checksumKey); err != nil {
		return nil, fmt.Errorf("could not initialize PayOS client: %w", err)
	}

	return &PayOSGateway{
		returnURL: returnURL,
		cancelURL: cancelURL,
	}, nil
}

func (g *PayOSGateway) CreatePaymentLink(params CheckoutParams) (*CheckoutLink, error) {
	req := payos.CheckoutRequestType{
		OrderCode:   params.OrderCode,
		Amount:      int(params.Amount),
		Description: TruncateDescription(params.Description),
		BuyerName:   &params.BuyerName,
		BuyerEmail:  &params.BuyerEmail,
		BuyerPhone:  &params.BuyerPhone,
		ReturnUrl:   g.returnURL,
		CancelUrl:   g.cancelURL,
	}

	data, err := payos.CreatePaymentLink(req)
	if err != nil {
		return nil, fmt.Errorf("could not create payment link for order %d: %w", params.OrderCode, err)
	}

	return &CheckoutLink{
		OrderCode:     data.OrderCode,
		CheckoutURL:   data.CheckoutUrl,
		PaymentLinkID: data.PaymentLinkId,
	}, nil
}

func (g *PayOSGateway) VerifyWebhook(payload []byte) (*WebhookResult, error) {
	var hook payos.WebhookType
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	data, err := payos.VerifyPaymentWebhookData(hook)
	if err != nil {
		return nil, fmt.Errorf("webhook verification failed: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("webhook verification returned no data")
	}

	return &WebhookResult{
		Code:      data.Code,
		OrderCode: data.OrderCode,
		Reference: data.Reference,
		Amount:    int64(data.Amount),
	}, nil
}

func (g *PayOSGateway) GetPaymentInfo(orderCode int64) *PaymentInfo {
	info, err := payos.GetPaymentLinkInformation(strconv.FormatInt(orderCode, 10))
	if err != nil {
		log.Printf("Could not fetch payment info for order %d: %v", orderCode, err)
		return nil
	}

	return &PaymentInfo{
		OrderCode:     info.OrderCode,
		Status:        info.Status,
		AmountPaid:    int64(info.AmountPaid),
		PaymentLinkID: info.Id,
	}
}

func (g *PayOSGateway) CancelPaymentLink(orderCode int64, reason string) bool {
	_, err := payos.CancelPaymentLink(strconv.FormatInt(orderCode, 10), &reason)
	if err != nil {
		log.Printf("Could not cancel payment link for order %d: %v", orderCode, err)
		return false
	}
	return true
}
