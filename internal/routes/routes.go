package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"crmdash/internal/authz"
	"crmdash/internal/handlers"
	"crmdash/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Contacts   *handlers.ContactHandler
	Deals      *handlers.DealHandler
	Pipeline   *handlers.PipelineHandler
	Activities *handlers.ActivityHandler
	Dashboard  *handlers.DashboardHandler
	Reports    *handlers.ReportHandler
	Records    *handlers.RecordHandler
	BoardFeed  *handlers.BoardFeedHandler
}

// RecordKeys are the credentials accepted on /api/records besides an admin token.
type RecordKeys struct {
	ProjectID string
	PublicKey string
}

func SetupRoutes(r *gin.Engine, jwt *middleware.JWT, keys RecordKeys, h Handlers) *gin.Engine {

	// ---- public
	r.GET("/healthz", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/login", h.Auth.Login)

	// ---- record protocol: свои ключи или admin JWT
	records := r.Group("/api/records", middleware.RecordAPI(jwt, keys.ProjectID, keys.PublicKey))
	{
		records.POST("/:table/query", h.Records.Query)
		records.GET("/:table/:id", h.Records.Get)
		records.POST("/:table", h.Records.Create)
		records.PUT("/:table", h.Records.Update)
		records.DELETE("/:table", h.Records.Delete)
	}

	// ---- protected
	r.Use(jwt.Middleware())
	r.Use(middleware.ReadOnlyGuard())

	r.GET("/me", h.Auth.Me)
	r.GET("/meta", handlers.Meta)
	r.GET("/dashboard", h.Dashboard.Get)
	r.GET("/ws/pipeline", h.BoardFeed.Serve)

	// CONTACTS
	contacts := r.Group("/contacts")
	{
		contacts.GET("", h.Contacts.List)
		contacts.POST("", h.Contacts.Create)
		contacts.GET("/:id", h.Contacts.GetByID)
		contacts.PUT("/:id", h.Contacts.Update)
		contacts.DELETE("/:id", h.Contacts.Delete)
	}

	// DEALS
	deals := r.Group("/deals")
	{
		deals.GET("", h.Deals.List)
		deals.POST("", h.Deals.Create)
		deals.GET("/:id", h.Deals.GetByID)
		deals.PUT("/:id", h.Deals.Update)
		deals.DELETE("/:id", h.Deals.Delete)
		deals.POST("/:id/stage", h.Deals.Move)
	}

	// PIPELINE
	pipeline := r.Group("/pipeline")
	{
		pipeline.GET("", h.Pipeline.Board)
		pipeline.GET("/summary", h.Pipeline.Summary)
		pipeline.GET("/stages", h.Pipeline.Stages)
	}

	// ACTIVITIES
	activities := r.Group("/activities")
	{
		activities.GET("", h.Activities.List)
		activities.POST("", h.Activities.Create)
		activities.GET("/stats", h.Activities.Stats)
		activities.POST("/digest", middleware.RequireRoles(authz.RoleAdmin), h.Activities.Digest)
		activities.GET("/:id", h.Activities.GetByID)
		activities.PUT("/:id", h.Activities.Update)
		activities.DELETE("/:id", h.Activities.Delete)
		activities.POST("/:id/toggle", h.Activities.Toggle)
	}

	// REPORTS
	reports := r.Group("/reports")
	{
		reports.GET("/pipeline.pdf", h.Reports.PipelinePDF)
	}

	return r
}
