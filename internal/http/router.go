package api

import (
	"log"
	stdhttp "net/http"

	intconfig "charterdesk/internal/config"
	h "charterdesk/internal/http/handlers"
	"charterdesk/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.ConfigureAuth(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Users (back-office accounts, token required)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth([]byte(env.JWTSecret)))
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", middleware.RequireRoles("admin", "owner"), h.DeleteUser)

		// Aircraft catalog
		models := api.Group("/aircraft-models")
		models.GET("", h.GetAircraftModels)
		models.GET("/:id", h.GetAircraftModelByID)
		models.POST("", h.CreateAircraftModel)
		models.PUT("/:id", h.UpdateAircraftModel)
		models.DELETE("/:id", h.DeleteAircraftModel)

		aircraft := api.Group("/aircraft")
		aircraft.GET("", h.GetAircraft)
		aircraft.GET("/:id", h.GetAircraftByID)
		aircraft.GET("/:id/spec", h.GetAircraftSpec)
		aircraft.POST("", h.CreateAircraft)
		aircraft.PUT("/:id", h.UpdateAircraft)
		aircraft.DELETE("/:id", h.DeleteAircraft)

		// Crew
		crew := api.Group("/crew")
		crew.GET("", h.GetCrew)
		crew.POST("", h.CreateCrew)
		crew.PUT("/:id", h.UpdateCrew)
		crew.DELETE("/:id", h.DeleteCrew)

		// Contacts
		contacts := api.Group("/contacts")
		contacts.GET("", h.GetContacts)
		contacts.GET("/:id", h.GetContactByID)
		contacts.POST("", h.CreateContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)

		// Quotes
		quotes := api.Group("/quotes")
		quotes.GET("", h.GetQuotes)
		quotes.GET("/shared/:token", h.GetSharedQuote)
		quotes.GET("/:id", h.GetQuoteByID)
		quotes.POST("", h.CreateQuote)
		quotes.PUT("/:id", h.UpdateQuote)
		quotes.DELETE("/:id", h.DeleteQuote)
		quotes.GET("/:id/totals", h.GetQuoteTotals)
		quotes.PUT("/:id/options/:optionId/fees", h.ToggleQuoteOptionFees)
		quotes.POST("/:id/publish", h.PublishQuote)
		quotes.GET("/:id/proposal", h.GetQuoteProposalPDF)
		quotes.GET("/:id/invoice", h.GetQuoteInvoicePDF)
	}

	h.SetRouter(r)
	return r
}
