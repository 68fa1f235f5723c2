package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CageChen/fsentity/internal/logger"
)

const requestIDKey = "request_id"

// NewRouter wires every API route onto a new gin engine and subscribes the
// websocket feed to the workspace bus.
func NewRouter(ws *Workspace) *gin.Engine {
	fileHandler := NewFileHandler(ws)
	treeHandler := NewTreeHandler(ws)
	wsHandler := NewWSHandler()
	ws.bus.OnChange(wsHandler.OnChange)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(loggerMiddleware(ws.log.WithComponent("http")))
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/entities/*path", fileHandler.GetEntity)
		api.PUT("/entities/*path", fileHandler.PutEntity)
		api.DELETE("/entities/*path", fileHandler.DeleteEntity)
		api.GET("/raw/*path", fileHandler.GetRaw)
		api.GET("/preview/*path", fileHandler.GetPreview)
		api.GET("/eval/*path", fileHandler.GetEval)

		api.GET("/dirs/*path", treeHandler.ListDir)
		api.POST("/dirs/*path", treeHandler.MakeDir)
		api.GET("/tree", treeHandler.GetTree)
		api.GET("/ws", wsHandler.HandleWS)
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s %d %s [%s]",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Round(time.Microsecond), c.GetString(requestIDKey))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
