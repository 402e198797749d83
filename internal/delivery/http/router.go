package http

import (
	"github.com/campuslink24/campuslink-backend/internal/delivery/http/handler"
	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Router struct {
	authHandler        *handler.AuthHandler
	profileHandler     *handler.ProfileHandler
	personalityHandler *handler.PersonalityHandler
	compatHandler      *handler.CompatHandler
	locationHandler    *handler.LocationHandler
	connectionHandler  *handler.ConnectionHandler
	authMiddleware     *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	personalityHandler *handler.PersonalityHandler,
	compatHandler *handler.CompatHandler,
	locationHandler *handler.LocationHandler,
	connectionHandler *handler.ConnectionHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:        authHandler,
		profileHandler:     profileHandler,
		personalityHandler: personalityHandler,
		compatHandler:      compatHandler,
		locationHandler:    locationHandler,
		connectionHandler:  connectionHandler,
		authMiddleware:     authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("academicyear", validAcademicYear)
	}

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/onboarding", r.profileHandler.Onboard)
		v1.GET("/personality/questions", r.personalityHandler.GetQuestions)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.Refresh)
			auth.POST("/logout", r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
				profile.GET("/:user_id", r.profileHandler.GetProfileByUserID)
			}

			personality := protected.Group("/personality")
			{
				personality.POST("/submit", r.personalityHandler.SubmitAnswers)
				personality.GET("/my-results", r.personalityHandler.GetMyResults)
				personality.GET("/user/:user_id", r.personalityHandler.GetUserResults)
			}

			protected.GET("/compatibility/:user_id", r.compatHandler.Score)
			protected.POST("/location", r.locationHandler.Report)

			connections := protected.Group("/connections")
			{
				connections.POST("", r.connectionHandler.Create)
				connections.GET("/pending", r.connectionHandler.ListPending)
				connections.GET("/mutual", r.connectionHandler.ListMutual)
				connections.PUT("/:id/status", r.connectionHandler.SetStatus)
				connections.POST("/sweep", r.connectionHandler.Sweep)
			}
		}
	}

	return router
}

func validAcademicYear(fl validator.FieldLevel) bool {
	return domain.AcademicYear(fl.Field().String()).Valid()
}
