package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"pantrypal/meal-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := NewBillingService(&mockUserRepo{}, "whsec_test")
	body := []byte(`{"type":"subscription.updated","userId":"abc"}`)

	assert.NoError(t, svc.VerifySignature(body, signBody("whsec_test", body)))
	assert.ErrorIs(t, svc.VerifySignature(body, signBody("wrong-secret", body)), ErrInvalidSignature)
	assert.ErrorIs(t, svc.VerifySignature(body, ""), ErrInvalidSignature)

	// Signature over a different body must not validate.
	assert.ErrorIs(t, svc.VerifySignature([]byte(`{}`), signBody("whsec_test", body)), ErrInvalidSignature)
}

func TestHandleEvent_SubscriptionUpdated(t *testing.T) {
	userID := primitive.NewObjectID()

	var gotTier domain.SubscriptionTier
	var gotMax int
	userRepo := &mockUserRepo{
		UpdateSubscriptionFn: func(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier, maxRecipes int) error {
			assert.Equal(t, userID, id)
			gotTier, gotMax = tier, maxRecipes
			return nil
		},
	}

	svc := NewBillingService(userRepo, "whsec_test")
	err := svc.HandleEvent(context.Background(), SubscriptionEvent{Type: EventSubscriptionUpdated, UserID: userID.Hex()})
	require.NoError(t, err)

	assert.Equal(t, domain.TierPaid, gotTier)
	assert.Equal(t, domain.PaidMaxRecipes, gotMax)
}

func TestHandleEvent_SubscriptionDeleted(t *testing.T) {
	userID := primitive.NewObjectID()

	var gotTier domain.SubscriptionTier
	var gotMax int
	userRepo := &mockUserRepo{
		UpdateSubscriptionFn: func(ctx context.Context, id primitive.ObjectID, tier domain.SubscriptionTier, maxRecipes int) error {
			gotTier, gotMax = tier, maxRecipes
			return nil
		},
	}

	svc := NewBillingService(userRepo, "whsec_test")
	err := svc.HandleEvent(context.Background(), SubscriptionEvent{Type: EventSubscriptionDeleted, UserID: userID.Hex()})
	require.NoError(t, err)

	assert.Equal(t, domain.TierFree, gotTier)
	assert.Equal(t, domain.FreeMaxRecipes, gotMax)
}

func TestHandleEvent_UnknownTypeIgnored(t *testing.T) {
	// UpdateSubscriptionFn unset: reaching the repo would panic the test.
	svc := NewBillingService(&mockUserRepo{}, "whsec_test")
	err := svc.HandleEvent(context.Background(), SubscriptionEvent{Type: "invoice.paid", UserID: "whatever"})
	assert.NoError(t, err)
}

func TestHandleEvent_BadUserID(t *testing.T) {
	svc := NewBillingService(&mockUserRepo{}, "whsec_test")
	err := svc.HandleEvent(context.Background(), SubscriptionEvent{Type: EventSubscriptionUpdated, UserID: "not-a-hex-id"})
	assert.ErrorIs(t, err, ErrUnknownUser)
}
