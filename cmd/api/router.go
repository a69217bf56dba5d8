package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realty-backend/internal/shared/middleware"
	"realty-backend/internal/shared/response"
	"realty-backend/pkg/container"
)

// SetupRouter wires middleware and all domain routes under /api/v1.
func SetupRouter(app *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// Local backend serves uploaded objects straight from disk.
	if app.Config.Storage.Backend == "local" {
		router.Static("/storage", app.Config.Storage.LocalRoot)
	}

	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":   "ok",
			"version":  app.Config.App.Version,
			"database": "ok",
			"cache":    "ok",
		}
		code := http.StatusOK

		if err := app.DB.HealthCheck(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		}
		if err := app.Cache.Ping(c.Request.Context()); err != nil {
			status["cache"] = "unreachable"
		}

		c.JSON(code, response.Response{Success: code == http.StatusOK, Data: status})
	})

	setupAuthRoutes(v1, app)
	setupListingRoutes(v1, app)
	setupTaxonomyRoutes(v1, app)
	setupMediaRoutes(v1, app)
	setupUserRoutes(v1, app)
	setupSavedSearchRoutes(v1, app)

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, app *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", app.UserHandler.Register)
		auth.POST("/login", app.UserHandler.Login)
		auth.POST("/refresh", app.UserHandler.Refresh)
		auth.POST("/forgot-password", app.UserHandler.ForgotPassword)
		auth.POST("/reset-password", app.UserHandler.ResetPassword)

		auth.GET("/me", middleware.AuthMiddleware(app.Config.JWT.Secret), app.UserHandler.Me)
	}
}

func setupListingRoutes(v1 *gin.RouterGroup, app *container.Container) {
	listings := v1.Group("/listings")
	{
		listings.GET("", app.ListingHandler.List)
		listings.GET("/search", app.ListingHandler.Search)
		listings.GET("/by-slug/:slug", app.ListingHandler.GetBySlug)
		listings.GET("/:id", app.ListingHandler.Get)
		listings.GET("/:id/media", app.MediaHandler.ListingMedia)
		listings.POST("/:id/view", app.ListingHandler.View)
	}

	protected := v1.Group("/listings", middleware.AuthMiddleware(app.Config.JWT.Secret))
	{
		protected.POST("", app.ListingHandler.Create)
		protected.PUT("/:id", app.ListingHandler.Update)
		protected.DELETE("/:id", app.ListingHandler.Delete)
		protected.POST("/:id/favorite", app.ListingHandler.Favorite)
		protected.DELETE("/:id/favorite", app.ListingHandler.Unfavorite)

		protected.POST("/:id/images", app.MediaHandler.UploadImage)
		protected.POST("/:id/images/batch", app.MediaHandler.UploadImages)
		protected.POST("/:id/videos", app.MediaHandler.UploadVideo)
		protected.POST("/:id/videos/batch", app.MediaHandler.UploadVideos)
	}
}

func setupTaxonomyRoutes(v1 *gin.RouterGroup, app *container.Container) {
	taxonomy := v1.Group("/taxonomy")
	{
		taxonomy.GET("/locations", app.TaxonomyHandler.ListLocations)
		taxonomy.GET("/locations/match", app.TaxonomyHandler.MatchLocations)
		taxonomy.GET("/:kind", app.TaxonomyHandler.ListTerms)
	}

	admin := v1.Group("/taxonomy",
		middleware.AuthMiddleware(app.Config.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.POST("/locations", app.TaxonomyHandler.CreateLocation)
		admin.PUT("/locations/:id", app.TaxonomyHandler.UpdateLocation)
		admin.DELETE("/locations/:id", app.TaxonomyHandler.DeleteLocation)

		admin.POST("/:kind", app.TaxonomyHandler.CreateTerm)
		admin.PUT("/:kind/:id", app.TaxonomyHandler.UpdateTerm)
		admin.DELETE("/:kind/:id", app.TaxonomyHandler.DeleteTerm)
	}
}

func setupMediaRoutes(v1 *gin.RouterGroup, app *container.Container) {
	media := v1.Group("/media")
	{
		media.GET("/images/info", app.MediaHandler.MediaInfo)
	}

	protected := v1.Group("/media", middleware.AuthMiddleware(app.Config.JWT.Secret))
	{
		// Flat variants of the nested /listings/:id upload routes; the
		// listing travels in the listing_id form field.
		protected.POST("/images", app.MediaHandler.UploadImage)
		protected.POST("/images/batch", app.MediaHandler.UploadImages)
		protected.POST("/images/base64", app.MediaHandler.UploadBase64Image)
		protected.DELETE("/images", app.MediaHandler.DeleteImage)
		protected.POST("/videos", app.MediaHandler.UploadVideo)
		protected.POST("/videos/batch", app.MediaHandler.UploadVideos)
		protected.DELETE("/videos", app.MediaHandler.DeleteVideo)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, app *container.Container) {
	users := v1.Group("/users",
		middleware.AuthMiddleware(app.Config.JWT.Secret), middleware.AdminMiddleware())
	{
		users.GET("", app.UserHandler.ListUsers)
		users.POST("", app.UserHandler.CreateUser)
		users.PUT("/:id", app.UserHandler.UpdateUser)
		users.DELETE("/:id", app.UserHandler.DeleteUser)
	}
}

func setupSavedSearchRoutes(v1 *gin.RouterGroup, app *container.Container) {
	searches := v1.Group("/saved-searches", middleware.AuthMiddleware(app.Config.JWT.Secret))
	{
		searches.POST("", app.SavedSearchHandler.Save)
		searches.GET("", app.SavedSearchHandler.List)
		searches.PUT("/:id", app.SavedSearchHandler.Update)
		searches.DELETE("/:id", app.SavedSearchHandler.Delete)
	}
}
