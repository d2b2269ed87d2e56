package endpoint

import "github.com/gin-gonic/gin"

// Routes collects the handlers' dependencies.
type Routes struct {
	ServiceName string
	Transcriber Transcriber
	NewCleaner  CleanerFactory
	Health      HealthChecker
}

// Register mounts the probe and API routes on r.
func Register(r gin.IRouter, rt Routes) {
	r.GET("/health", Health(rt.ServiceName, rt.Health))
	r.GET("/alive", Liveness(rt.ServiceName))
	r.GET("/version", Version())

	api := r.Group("/api")
	api.POST("/transcribe", Transcribe(rt.Transcriber))
	api.POST("/cleanup", Cleanup(rt.Transcriber))
	if rt.NewCleaner != nil {
		api.POST("/gpt", GPT(rt.NewCleaner, rt.Transcriber))
	}
}
