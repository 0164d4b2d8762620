package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/tled/pkg/api/handlers"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
)

// Options configures optional router dependencies
type Options struct {
	// Events is the command history; nil disables it.
	Events db.EventStore
	// AuthSecret enables bearer auth when set.
	AuthSecret string
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine      *gin.Engine
	dispatcher  *command.Dispatcher
	broadcaster *command.Broadcaster
	events      db.EventStore
}

// NewRouter creates a new API router. The broadcaster must already be
// subscribed to the dispatcher's surface.
func NewRouter(dispatcher *command.Dispatcher, broadcaster *command.Broadcaster, opts Options) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine, opts.AuthSecret)

	router := &Router{
		engine:      engine,
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		events:      opts.Events,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(301, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.dispatcher.Surface())
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Device
		deviceHandler := handlers.NewDeviceHandler(r.dispatcher)
		dev := v1.Group("/device")
		{
			dev.GET("", deviceHandler.Get)
			dev.POST("/init", deviceHandler.Init)
			dev.POST("/power", deviceHandler.Power)
			dev.PATCH("/color", deviceHandler.ChangeOnly)
			dev.PUT("/color", deviceHandler.ChangeAll)
			dev.POST("/white", deviceHandler.White)
			dev.POST("/effect", deviceHandler.Effect)

			// Audio visualization
			dev.POST("/audio", deviceHandler.UseAudio)
			dev.DELETE("/audio", deviceHandler.StopAudio)
			dev.GET("/audio/default", deviceHandler.DefaultAudio)
		}

		v1.GET("/effects", handlers.Effects)

		// Events
		eventsHandler := handlers.NewEventsHandler(r.events, r.broadcaster)
		v1.GET("/events", eventsHandler.List)
		v1.GET("/events/stream", eventsHandler.Stream)

		wsHandler := NewWSHandler(r.dispatcher, r.broadcaster)
		v1.GET("/ws", wsHandler.Serve)
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
