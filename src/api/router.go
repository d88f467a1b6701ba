package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MPEnsystemsDeveloper/trim-v1/src/service"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

// NewRouter wires the read-only query surface. The frontend dev
// servers are the only expected origins.
func NewRouter(q *service.QueryServiceImpl) *gin.Engine {
	r := gin.Default()
	r.Use(tools.Recover)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost",
		"http://localhost:3000",
		"http://localhost:8080",
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	h := &Handler{query: q}
	r.GET("/", h.Root)
	r.GET("/devices", h.Devices)
	r.GET("/processed", h.Processed)
	r.GET("/daily-consumption", h.DailyConsumption)
	return r
}
