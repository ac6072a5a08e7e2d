package delivery

import (
	"errors"
	"net/http"

	authdomain "quotepush-backend/internal/auth/domain"
	"quotepush-backend/internal/subscription/usecase"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler serves the push-subscription registration route.
type SubscriptionHandler struct {
	subscriptionUsecase usecase.SubscriptionUsecase
}

// NewSubscriptionHandler creates a new instance of SubscriptionHandler
func NewSubscriptionHandler(subscriptionUsecase usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionUsecase: subscriptionUsecase}
}

// UpsertSubscription handles POST /api/subscriptions
func (h *SubscriptionHandler) UpsertSubscription(c *gin.Context) {
	var input usecase.UpsertSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.subscriptionUsecase.Upsert(&input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, authdomain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
