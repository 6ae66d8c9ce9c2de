package api

import (
	"voting-registry/internal/api/handlers"
	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	cfg := services.GetConfig()

	// Global middleware
	router.Use(middlewares.Recovery())
	router.Use(middlewares.CORS(cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.RequestLogging(services.GetLogger()))
	router.Use(middlewares.RateLimit(100))

	// Health check (no auth required)
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/ping", handlers.HealthCheck(services))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		setupPublicRoutes(v1, services)
		setupAuthenticatedRoutes(v1, services)
		setupAdminRoutes(v1, services)
		setupWebSocketRoutes(v1, services)
	}
}

// setupPublicRoutes configures routes that don't require authentication
func setupPublicRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	public := rg.Group("/public")
	{
		public.GET("/registry", handlers.GetRegistry(services))
		public.GET("/elections/:id", handlers.GetElection(services))
		public.GET("/elections/:id/results", handlers.GetElectionResults(services))
		public.GET("/elections/:id/candidates", handlers.ListCandidates(services))
		public.GET("/elections/:id/candidates/:candidate_id", handlers.GetCandidate(services))
		public.GET("/elections/:id/registrations/:voter", handlers.GetVoterRegistration(services))
		public.GET("/elections/:id/votes/:voter", handlers.GetVoteRecord(services))
		public.GET("/admins/:authority", handlers.GetAdmin(services))

		if services.GetConfig().IsDevelopment() {
			public.POST("/auth/token", handlers.IssueDevToken(services))
		}
	}
}

// setupAuthenticatedRoutes configures routes that require authentication
func setupAuthenticatedRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	authenticated := rg.Group("/voting")
	authenticated.Use(middlewares.AuthRequired(services))
	{
		authenticated.POST("/elections/:id/register", handlers.RequestVoterRegistration(services))
		authenticated.POST("/elections/:id/vote", handlers.CastVote(services))
		authenticated.GET("/elections/:id/status", handlers.GetVoterStatus(services))
	}
}

// setupAdminRoutes configures admin-only routes. The ledger enforces the
// capability checks per operation; routes here only require a valid token,
// except registry management which is super-admin only.
func setupAdminRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	admin := rg.Group("/admin")
	admin.Use(middlewares.AuthRequired(services))
	{
		// Registry management (super-admin enforced by the ledger as well)
		registry := admin.Group("/registry")
		registry.Use(middlewares.SuperAdminRequired(services))
		{
			registry.POST("/", handlers.InitializeRegistry(services))
			registry.POST("/pause", handlers.PauseSystem(services))
			registry.POST("/unpause", handlers.UnpauseSystem(services))
			registry.POST("/admins", handlers.AddAdmin(services))
			registry.PUT("/admins/:authority/permissions", handlers.UpdateAdminPermissions(services))
			registry.POST("/admins/:authority/deactivate", handlers.DeactivateAdmin(services))
		}

		// Election management
		elections := admin.Group("/elections")
		{
			elections.POST("/", handlers.CreateElection(services))
			elections.POST("/:id/start", handlers.StartElection(services))
			elections.POST("/:id/end", handlers.EndElection(services))
			elections.POST("/:id/cancel", handlers.CancelElection(services))
			elections.POST("/:id/finalize", handlers.FinalizeElection(services))

			elections.POST("/:id/candidates", handlers.AddCandidate(services))
			elections.DELETE("/:id/candidates/:candidate_id", handlers.RemoveCandidate(services))

			elections.POST("/:id/voters", handlers.AddVoterDirectly(services))
			elections.POST("/:id/registrations/:voter/approve", handlers.ApproveVoterRegistration(services))
			elections.POST("/:id/registrations/:voter/reject", handlers.RejectVoterRegistration(services))
			elections.POST("/:id/registrations/:voter/revoke", handlers.RevokeVoterRegistration(services))
		}
	}
}

// setupWebSocketRoutes configures WebSocket endpoints
func setupWebSocketRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	ws := rg.Group("/ws")
	ws.Use(middlewares.WSAuthRequired(services))
	{
		ws.GET("/events", handlers.EventStream(services))
	}
}
