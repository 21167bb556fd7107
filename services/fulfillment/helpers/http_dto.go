package helpers

import (
	"time"

	fulfillment "auction-marketplace/internal/fulfillmentService"
	model "auction-marketplace/internal/models"
)

type CreateTransactionRequest struct {
	ListingID       string                 `json:"listing_id" binding:"required"`
	ShippingAddress *model.ShippingAddress `json:"shipping_address"`
}

type UpdateStatusRequest struct {
	Status            string     `json:"status" binding:"required"`
	PaymentID         string     `json:"payment_id"`
	PaymentMethod     string     `json:"payment_method"`
	TrackingNumber    string     `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	Notes             string     `json:"notes"`
	Reason            string     `json:"reason"`
	RefundAmount      float64    `json:"refund_amount" binding:"gte=0"`
}

type ListTransactionsQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=buying selling"`
	Status string `form:"status"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

// ToStatusUpdate converts the request body into the service's transition input
func (r UpdateStatusRequest) ToStatusUpdate() fulfillment.StatusUpdate {
	return fulfillment.StatusUpdate{
		Status:            model.TransactionStatus(r.Status),
		PaymentID:         r.PaymentID,
		PaymentMethod:     r.PaymentMethod,
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
		Notes:             r.Notes,
		Reason:            r.Reason,
		RefundAmount:      r.RefundAmount,
	}
}

// ToFilter converts the query string into a repository filter
func (q ListTransactionsQuery) ToFilter() model.TransactionFilter {
	return model.TransactionFilter{
		Role:   q.Role,
		Status: model.TransactionStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	}
}
