package api

import (
	"net/http"

	"pantrypal/meal-planner/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	groupService service.GroupService,
	recipeService service.RecipeService,
	planService service.PlanService,
	cartService service.CartService,
	pantryService service.PantryService,
	billingService service.BillingService,
) {

	authHandler := NewAuthHandler(authService)
	groupHandler := NewGroupHandler(groupService)
	recipeHandler := NewRecipeHandler(recipeService)
	planHandler := NewPlanHandler(planService)
	cartHandler := NewCartHandler(cartService)
	pantryHandler := NewPantryHandler(pantryService)
	billingHandler := NewBillingHandler(billingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Unauthenticated; trust comes from the HMAC signature header.
		apiV1.POST("/subscriptions/webhook", billingHandler.HandleWebhook)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		// --- Recipe Routes ---
		recipeGroup := protected.Group("/recipes")
		{
			recipeGroup.POST("", recipeHandler.CreateRecipe)
			recipeGroup.GET("", recipeHandler.ListRecipes)
			recipeGroup.GET("/:recipeId", recipeHandler.GetRecipe)
			recipeGroup.PUT("/:recipeId", recipeHandler.UpdateRecipe)
			recipeGroup.DELETE("/:recipeId", recipeHandler.DeleteRecipe)
			recipeGroup.POST("/image-upload", recipeHandler.RequestImageUpload)
			recipeGroup.GET("/:recipeId/image-url", recipeHandler.GetImageURL)
		}

		// --- Group Routes ---
		groupGroup := protected.Group("/groups")
		{
			groupGroup.POST("", groupHandler.CreateGroup)
			groupGroup.GET("", groupHandler.GetMyGroups)
			groupGroup.POST("/join", groupHandler.JoinGroup)
			groupGroup.GET("/:groupId", groupHandler.GetGroup)
			groupGroup.GET("/:groupId/invite-code", groupHandler.GetInviteCode)

			// --- Week Plan ---
			groupGroup.GET("/:groupId/week-plan", planHandler.GetWeekPlan)
			groupGroup.POST("/:groupId/week-plan", planHandler.SaveWeekPlan)

			// --- Shopping Cart ---
			groupGroup.POST("/:groupId/shopping-cart/generate", cartHandler.GenerateCart)
			groupGroup.GET("/:groupId/shopping-cart", cartHandler.GetCart)
			groupGroup.PATCH("/:groupId/shopping-cart/:itemId", cartHandler.UpdateCartItem)
			groupGroup.DELETE("/:groupId/shopping-cart/:itemId", cartHandler.DeleteCartItem)

			// --- Pantry ---
			groupGroup.POST("/:groupId/pantry", pantryHandler.AddPantryItem)
			groupGroup.GET("/:groupId/pantry", pantryHandler.ListPantryItems)
			groupGroup.PATCH("/:groupId/pantry/:itemId", pantryHandler.UpdatePantryItem)
			groupGroup.DELETE("/:groupId/pantry/:itemId", pantryHandler.DeletePantryItem)
		}
	}
}
