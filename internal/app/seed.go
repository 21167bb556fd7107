package app

import (
	"context"
	"fmt"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/utils"
)

type seedUser struct {
	name, email string
}

var seedUsers = []seedUser{
	{"Alice Seller", "alice@example.com"},
	{"Bob Bidder", "bob@example.com"},
	{"Carol Bidder", "carol@example.com"},
}

// Seed registers demo users and opens demo auctions sold by the first of them.
// Each user's access token is logged so the API can be exercised right away.
func Seed(ctx context.Context, deps *Deps) error {
	userIDs := make([]string, 0, len(seedUsers))
	for _, su := range seedUsers {
		user, err := deps.Accounts.RegisterUser(ctx, su.name, su.email)
		if err != nil {
			return fmt.Errorf("register %s: %w", su.email, err)
		}
		token, expiresAt, err := deps.Tokens.Issue(user.UserID)
		if err != nil {
			return fmt.Errorf("issue token for %s: %w", su.email, err)
		}
		userIDs = append(userIDs, user.UserID)
		utils.Info("seed: user registered", map[string]any{
			"user_id":      user.UserID,
			"email":        user.Email,
			"access_token": token,
			"expires_at":   expiresAt.UTC().Format(time.RFC3339),
		})
	}

	now := time.Now().UTC()
	listings := []bidding.NewListing{
		{Title: "Vintage film camera", Category: "electronics", Condition: "good", StartPrice: 100, EndTime: now.Add(10 * time.Minute)},
		{Title: "Signed first edition", Category: "books", Condition: "like-new", StartPrice: 200, EndTime: now.Add(30 * time.Minute)},
		{Title: "Mechanical keyboard", Category: "electronics", Condition: "new", StartPrice: 150, EndTime: now.Add(2 * time.Hour)},
	}
	for _, l := range listings {
		l.SellerID = userIDs[0]
		l.StartTime = now
		listing, err := deps.Bidding.CreateListing(ctx, l)
		if err != nil {
			return fmt.Errorf("create listing %q: %w", l.Title, err)
		}
		utils.Info("seed: listing created", map[string]any{
			"listing_id": listing.ListingID,
			"title":      listing.Title,
			"status":     string(listing.Status),
			"end_time":   listing.EndTime.Format(time.RFC3339),
		})
	}
	return nil
}
