package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record was modified concurrently")
	ErrAlreadyExists = errors.New("record already exists")
)

// Auction ledger errors
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotActive         = errors.New("listing is not accepting bids")
	ErrSelfBid           = errors.New("seller cannot bid on own listing")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrAuctionInProgress = errors.New("auction has not reached its end time")
)

// Fulfillment errors
var (
	ErrNotEnded          = errors.New("auction must be ended to create a transaction")
	ErrNotWinner         = errors.New("only the auction winner can create a transaction")
	ErrInvalidTransition = errors.New("invalid transaction status transition")
	ErrUnauthorized      = errors.New("not authorized for this operation")
)
