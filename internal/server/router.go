// Package server assembles the HTTP surface: middleware chain and routes.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/handler"
	"github.com/yamdb/api/internal/middleware"
	"github.com/yamdb/api/internal/policy"
	"github.com/yamdb/api/internal/service"
)

const APIPrefix = "/api/v1"

type Dependencies struct {
	AuthService    *service.AuthService
	UserService    *service.UserService
	CatalogService *service.CatalogService
	TitleService   *service.TitleService
	ReviewService  *service.ReviewService

	// AuthLimiter throttles the auth endpoints; nil disables it.
	AuthLimiter *middleware.RateLimiter

	AllowedOrigins []string
	IsProduction   bool
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.SecurityHeadersMiddleware(),
		middleware.HSTSMiddleware(deps.IsProduction),
		cors.New(corsConfig(deps.AllowedOrigins)),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	catalogHandler := handler.NewCatalogHandler(deps.CatalogService)
	titleHandler := handler.NewTitleHandler(deps.TitleService)
	reviewHandler := handler.NewReviewHandler(deps.ReviewService)

	api := router.Group(APIPrefix)

	// The handshake runs without bearer auth so a stale token cannot block a resend.
	auth := api.Group("/auth")
	if deps.AuthLimiter != nil {
		auth.Use(deps.AuthLimiter.Middleware())
	}
	{
		auth.POST("/email", authHandler.SignUp)
		auth.POST("/token", authHandler.Token)
	}

	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.AuthService))

	users := authed.Group("/users")
	{
		users.GET("/me", middleware.Authorize(policy.ResourceSelf, policy.ActionRead), userHandler.GetMe)
		users.PATCH("/me", middleware.Authorize(policy.ResourceSelf, policy.ActionUpdate), userHandler.UpdateMe)

		users.GET("", middleware.Authorize(policy.ResourceUserAdmin, policy.ActionRead), userHandler.List)
		users.POST("", middleware.Authorize(policy.ResourceUserAdmin, policy.ActionCreate), userHandler.Create)
		users.GET("/:username", middleware.Authorize(policy.ResourceUserAdmin, policy.ActionRead), userHandler.Get)
		users.PATCH("/:username", middleware.Authorize(policy.ResourceUserAdmin, policy.ActionUpdate), userHandler.Update)
		users.DELETE("/:username", middleware.Authorize(policy.ResourceUserAdmin, policy.ActionDelete), userHandler.Delete)
	}

	categories := authed.Group("/categories")
	{
		categories.GET("", catalogHandler.ListCategories)
		categories.POST("", middleware.Authorize(policy.ResourceCatalog, policy.ActionCreate), catalogHandler.CreateCategory)
		categories.DELETE("/:slug", middleware.Authorize(policy.ResourceCatalog, policy.ActionDelete), catalogHandler.DeleteCategory)
	}

	genres := authed.Group("/genres")
	{
		genres.GET("", catalogHandler.ListGenres)
		genres.POST("", middleware.Authorize(policy.ResourceCatalog, policy.ActionCreate), catalogHandler.CreateGenre)
		genres.DELETE("/:slug", middleware.Authorize(policy.ResourceCatalog, policy.ActionDelete), catalogHandler.DeleteGenre)
	}

	titles := authed.Group("/titles")
	{
		titles.GET("", titleHandler.List)
		titles.POST("", middleware.Authorize(policy.ResourceCatalog, policy.ActionCreate), titleHandler.Create)
		titles.GET("/:title_id", titleHandler.Get)
		titles.PATCH("/:title_id", middleware.Authorize(policy.ResourceCatalog, policy.ActionUpdate), titleHandler.Update)
		titles.DELETE("/:title_id", middleware.Authorize(policy.ResourceCatalog, policy.ActionDelete), titleHandler.Delete)
	}

	// Review and comment writes are authorized in ReviewService, where the
	// stored author is known.
	reviews := titles.Group("/:title_id/reviews")
	{
		reviews.GET("", reviewHandler.ListReviews)
		reviews.POST("", reviewHandler.CreateReview)
		reviews.GET("/:review_id", reviewHandler.GetReview)
		reviews.PATCH("/:review_id", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)

		reviews.GET("/:review_id/comments", reviewHandler.ListComments)
		reviews.POST("/:review_id/comments", reviewHandler.CreateComment)
		reviews.GET("/:review_id/comments/:comment_id", reviewHandler.GetComment)
		reviews.PATCH("/:review_id/comments/:comment_id", reviewHandler.UpdateComment)
		reviews.DELETE("/:review_id/comments/:comment_id", reviewHandler.DeleteComment)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
