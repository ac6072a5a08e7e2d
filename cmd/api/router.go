package api

import (
	"net/http"

	authDelivery "quotepush-backend/internal/auth/delivery"
	bgDelivery "quotepush-backend/internal/background/delivery"
	quoteDelivery "quotepush-backend/internal/quote/delivery"
	subDelivery "quotepush-backend/internal/subscription/delivery"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP routes. Mutating quote, author and background
// routes sit behind the admin password guard; subscription registration is
// public (clients prove identity with a provider token in the request body).
func SetupRoutes(
	r *gin.Engine,
	quoteHandler *quoteDelivery.QuoteHandler,
	backgroundHandler *bgDelivery.BackgroundHandler,
	subscriptionHandler *subDelivery.SubscriptionHandler,
	adminPasswordHash string,
) {
	guard := authDelivery.PasswordGuard(adminPasswordHash)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/subscriptions", subscriptionHandler.UpsertSubscription)

		// Lets the admin client check its password before attempting mutations.
		api.POST("/admin/verify", guard, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"valid": true})
		})

		quotes := api.Group("/quotes")
		{
			quotes.GET("", quoteHandler.GetQuotes)
			quotes.GET("/random", quoteHandler.GetRandomQuote)
			quotes.GET("/:id", quoteHandler.GetQuote)
			quotes.POST("", guard, quoteHandler.CreateQuote)
			quotes.PUT("/:id", guard, quoteHandler.UpdateQuote)
			quotes.DELETE("/:id", guard, quoteHandler.DeleteQuote)
		}

		authors := api.Group("/authors")
		{
			authors.GET("", quoteHandler.GetAuthors)
			authors.GET("/:id", quoteHandler.GetAuthor)
			authors.GET("/:id/quotes", quoteHandler.GetAuthorQuotes)
			authors.POST("", guard, quoteHandler.CreateAuthor)
			authors.PUT("/:id", guard, quoteHandler.UpdateAuthor)
			authors.DELETE("/:id", guard, quoteHandler.DeleteAuthor)
		}

		backgrounds := api.Group("/backgrounds")
		{
			backgrounds.GET("", backgroundHandler.ListBackgrounds)
			backgrounds.GET("/clean", backgroundHandler.ListCleanBackgrounds)
			backgrounds.GET("/notClean", backgroundHandler.ListNotCleanBackgrounds)
			backgrounds.GET("/:id", backgroundHandler.GetBackground)
			backgrounds.POST("", guard, backgroundHandler.UploadBackground)
			backgrounds.PATCH("/:id/clean", guard, backgroundHandler.MarkBackgroundClean)
			backgrounds.DELETE("/:id", guard, backgroundHandler.DeleteBackground)
		}
	}
}
