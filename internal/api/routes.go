package api

import (
	"net/http"

	"github.com/fcjdm/gymfy/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the handlers onto the gin engine.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	sessionService service.SessionService,
	catalogService service.CatalogService,
	listService service.ListService,
	profileService service.ProfileService,
) {
	authHandler := NewAuthHandler(sessionService)
	catalogHandler := NewCatalogHandler(catalogService)
	listHandler := NewListHandler(listService)
	profileHandler := NewProfileHandler(profileService)

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
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/me", authHandler.Me)

		// --- Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", catalogHandler.SearchExercises)
			exerciseGroup.POST("", catalogHandler.CreateExercise)
			exerciseGroup.GET("/:id", catalogHandler.GetExercise)
		}

		// --- Exercise lists ---
		listGroup := protected.Group("/lists")
		{
			listGroup.GET("", listHandler.GetLists)
			listGroup.POST("", listHandler.CreateList)
			listGroup.GET("/:id", listHandler.GetList)
			listGroup.PUT("/:id", listHandler.RenameList)
			listGroup.DELETE("/:id", listHandler.DeleteList)
			listGroup.POST("/:id/exercises", listHandler.AddExercise)
			listGroup.DELETE("/:id/exercises/:exerciseId", listHandler.RemoveExercise)
		}

		// --- Profile & account ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.POST("/photo", profileHandler.UploadPhoto)
			profileGroup.GET("/photo", profileHandler.GetPhotoURL)
		}
		protected.DELETE("/account", profileHandler.DeleteAccount)
	}
}
