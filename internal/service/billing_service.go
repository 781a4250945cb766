package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"

	"pantrypal/meal-planner/internal/domain"
	"pantrypal/meal-planner/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnknownUser      = errors.New("webhook references unknown user")
)

// Subscription event types the billing provider delivers.
const (
	EventSubscriptionUpdated = "subscription.updated"
	EventSubscriptionDeleted = "subscription.deleted"
)

// SubscriptionEvent is the parsed webhook payload.
type SubscriptionEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type BillingService interface {
	// VerifySignature checks the hex HMAC-SHA256 of the raw body against the
	// shared webhook secret.
	VerifySignature(body []byte, signature string) error
	// HandleEvent applies a subscription change: updated -> paid tier,
	// deleted -> back to free. Unknown event types are acknowledged and
	// ignored.
	HandleEvent(ctx context.Context, event SubscriptionEvent) error
}

// billingService implements the BillingService interface.
type billingService struct {
	userRepo      repository.UserRepository
	webhookSecret string
}

// NewBillingService creates a new instance of billingService.
func NewBillingService(userRepo repository.UserRepository, webhookSecret string) BillingService {
	return &billingService{
		userRepo:      userRepo,
		webhookSecret: webhookSecret,
	}
}

// VerifySignature checks the webhook payload signature.
func (s *billingService) VerifySignature(body []byte, signature string) error {
	if s.webhookSecret == "" || signature == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// HandleEvent flips the user's tier and recipe cap.
func (s *billingService) HandleEvent(ctx context.Context, event SubscriptionEvent) error {
	var tier domain.SubscriptionTier
	var maxRecipes int

	switch event.Type {
	case EventSubscriptionUpdated:
		tier = domain.TierPaid
		maxRecipes = domain.PaidMaxRecipes
	case EventSubscriptionDeleted:
		tier = domain.TierFree
		maxRecipes = domain.FreeMaxRecipes
	default:
		log.Printf("Unhandled billing event type %q", event.Type)
		return nil
	}

	userID, err := primitive.ObjectIDFromHex(event.UserID)
	if err != nil {
		return ErrUnknownUser
	}

	err = s.userRepo.UpdateSubscription(ctx, userID, tier, maxRecipes)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnknownUser
	}
	return err
}
