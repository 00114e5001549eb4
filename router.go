package main

import (
	"spendsense/api/config"
	"spendsense/api/events"
	"spendsense/api/handlers"
	"spendsense/api/middleware"
	"spendsense/api/worker"

	"github.com/gin-gonic/gin"
)

func buildRouter(cfg *config.Config, bus *events.Bus, pool *worker.Pool) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(middleware.CorsMiddleware)
	router.Use(events.Middleware(bus))

	// Streaming routes authenticate via query token inside the handler,
	// since EventSource and browser websockets cannot set an Authorization
	// header. They are registered outside the /api group, which requires
	// bearer auth; /api/ws shares the prefix but not the middleware.
	router.GET("/sse/expenses", handlers.HandleExpenseFeedSSE)
	router.GET("/sse/:conversationID", handlers.HandleAdvisorSSE)
	router.GET("/api/ws", handlers.HandleExpenseFeedWS)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware)
	{
		// Reachable before email verification: the client needs these to
		// render the verification surface and the session gate.
		api.GET("/session", handlers.HandleGetSession)
		api.POST("/account", handlers.HandleEnsureAccount)

		verified := api.Group("")
		verified.Use(middleware.RequireVerified)
		{
			verified.POST("/profile", handlers.HandleCreateProfile)
			verified.GET("/profile", handlers.HandleGetProfile)
			verified.PUT("/profile", handlers.HandleUpdateProfile)

			verified.GET("/expenses", handlers.HandleListExpenses)
			verified.POST("/expenses", handlers.HandleCreateExpense)
			verified.PUT("/expenses/:id", handlers.HandleUpdateExpense)
			verified.DELETE("/expenses/:id", handlers.HandleDeleteExpense)

			verified.GET("/budget", handlers.HandleGetBudget)

			verified.POST("/financial-advisor", handlers.HandleFinancialAdvisor)

			verified.POST("/conversations", handlers.HandleCreateConversation)
			verified.GET("/conversations", handlers.HandleGetConversations)
			verified.DELETE("/conversations/:id", handlers.HandleDeleteConversation)
			verified.POST("/messages", handlers.HandleSendMessage)
			verified.POST("/messages/list", handlers.HandleGetMessages)

			verified.DELETE("/account", handlers.HandleDeleteAccount)
		}
	}

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware)
	{
		internal.GET("/context/:conversationID", handlers.HandleGetConversationContext)
		internal.GET("/metrics", gin.WrapF(pool.MetricsHandler))
	}

	return router
}
