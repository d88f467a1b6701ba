package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/service"
)

type Handler struct {
	query *service.QueryServiceImpl
}

// Root is the liveness endpoint.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Welcome to the Energy Data API!",
	})
}

// Devices returns the sorted union of device names across both
// collections.
func (h *Handler) Devices(c *gin.Context) {
	names, err := h.query.Devices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// Processed serves raw or interval-bucketed readings for a device.
func (h *Handler) Processed(c *gin.Context) {
	pq := service.ProcessedQuery{
		Device:    c.Query("device_name"),
		StartDate: c.Query("start_date"),
		StartTime: c.Query("start_time"),
		EndDate:   c.Query("end_date"),
		EndTime:   c.Query("end_time"),
		Interval:  c.DefaultQuery("interval", "raw"),
	}

	readings, buckets, err := h.query.Processed(c.Request.Context(), pq)
	if err != nil {
		h.fail(c, err)
		return
	}
	if buckets != nil {
		c.JSON(http.StatusOK, buckets)
		return
	}
	c.JSON(http.StatusOK, readings)
}

// DailyConsumption serves daily summaries for a device.
func (h *Handler) DailyConsumption(c *gin.Context) {
	summaries, err := h.query.Daily(c.Request.Context(),
		c.Query("device_name"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// fail maps input errors to 400 and everything else to a generic 500.
// Store failures are logged in full but not echoed to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	if service.IsInputError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	log.Logger.Error("query failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "database error",
	})
}
