package fulfillment

import (
	"fmt"
	"math"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"
)

// Role is the part a user plays in a transaction
type Role uint8

const (
	RoleBuyer Role = 1 << iota
	RoleSeller

	anyParty = RoleBuyer | RoleSeller
)

func (r Role) String() string {
	switch r {
	case RoleBuyer:
		return "buyer"
	case RoleSeller:
		return "seller"
	case anyParty:
		return "buyer or seller"
	default:
		return "none"
	}
}

// roleOf returns the role userID holds in tx, or 0 if the user is not a party
func roleOf(tx models.Transaction, userID string) Role {
	switch userID {
	case "":
		return 0
	case tx.BuyerID:
		return RoleBuyer
	case tx.SellerID:
		return RoleSeller
	default:
		return 0
	}
}

type edge struct {
	from, to models.TransactionStatus
}

// transitions lists every allowed status change and the roles allowed to make it.
// Terminal statuses have no outgoing edges; disputed only resolves to cancelled or refunded.
var transitions = map[edge]Role{
	{models.StatusPendingPayment, models.StatusPaid}:      RoleBuyer,
	{models.StatusPendingPayment, models.StatusCancelled}: anyParty,
	{models.StatusPendingPayment, models.StatusDisputed}:  anyParty,
	{models.StatusPendingPayment, models.StatusRefunded}:  RoleSeller,

	{models.StatusPaid, models.StatusShipped}:   RoleSeller,
	{models.StatusPaid, models.StatusCancelled}: anyParty,
	{models.StatusPaid, models.StatusDisputed}:  anyParty,
	{models.StatusPaid, models.StatusRefunded}:  RoleSeller,

	{models.StatusShipped, models.StatusDelivered}: RoleBuyer,
	{models.StatusShipped, models.StatusCancelled}: anyParty,
	{models.StatusShipped, models.StatusDisputed}:  anyParty,
	{models.StatusShipped, models.StatusRefunded}:  RoleSeller,

	{models.StatusDelivered, models.StatusCompleted}: anyParty,
	{models.StatusDelivered, models.StatusCancelled}: anyParty,
	{models.StatusDelivered, models.StatusDisputed}:  anyParty,
	{models.StatusDelivered, models.StatusRefunded}:  RoleSeller,

	{models.StatusDisputed, models.StatusCancelled}: anyParty,
	{models.StatusDisputed, models.StatusRefunded}:  RoleSeller,
}

// allowedRoles returns the roles that may move a transaction from one status to another
func allowedRoles(from, to models.TransactionStatus) (Role, bool) {
	roles, ok := transitions[edge{from, to}]
	return roles, ok
}

// StatusUpdate is a requested transition with the inputs its target status needs
type StatusUpdate struct {
	Status            models.TransactionStatus
	PaymentID         string
	PaymentMethod     string
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
	Reason            string
	RefundAmount      float64
}

// apply returns tx moved to update.Status with the target's fields filled in.
// It fails with ErrInvalidRequest when a required input is missing.
func apply(tx models.Transaction, update StatusUpdate, now time.Time) (models.Transaction, error) {
	next := tx
	next.Status = update.Status
	next.UpdatedAt = now

	switch update.Status {
	case models.StatusPaid:
		if strings.TrimSpace(update.PaymentID) == "" {
			return tx, fmt.Errorf("%w - payment confirmation is required", auctionerrors.ErrInvalidRequest)
		}
		next.PaymentID = update.PaymentID
		if update.PaymentMethod != "" {
			next.PaymentMethod = update.PaymentMethod
		}

	case models.StatusShipped:
		if strings.TrimSpace(update.TrackingNumber) == "" || update.EstimatedDelivery == nil {
			return tx, fmt.Errorf("%w - tracking number and estimated delivery are required", auctionerrors.ErrInvalidRequest)
		}
		eta := update.EstimatedDelivery.UTC()
		next.TrackingNumber = update.TrackingNumber
		next.EstimatedDelivery = &eta
		if update.Notes != "" {
			next.Notes = update.Notes
		}

	case models.StatusDelivered:
		delivered := now
		next.ActualDelivery = &delivered

	case models.StatusCompleted:
		completed := now
		next.CompletedAt = &completed

	case models.StatusCancelled:
		if err := requireReason(update.Reason); err != nil {
			return tx, err
		}
		next.CancelReason = update.Reason

	case models.StatusDisputed:
		if err := requireReason(update.Reason); err != nil {
			return tx, err
		}
		next.DisputeReason = update.Reason

	case models.StatusRefunded:
		if err := requireReason(update.Reason); err != nil {
			return tx, err
		}
		amount := update.RefundAmount
		if amount == 0 {
			amount = tx.FinalPrice
		}
		if amount < 0 || math.IsNaN(amount) || amount > tx.FinalPrice {
			return tx, fmt.Errorf("%w - refund amount must be in (0, %.2f]", auctionerrors.ErrInvalidRequest, tx.FinalPrice)
		}
		next.RefundReason = update.Reason
		next.RefundAmount = amount
	}

	return next, nil
}

func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w - a reason is required", auctionerrors.ErrInvalidRequest)
	}
	return nil
}
