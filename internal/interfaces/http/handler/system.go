package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/messhall/backend/internal/infrastructure/scheduler"
	"github.com/messhall/backend/internal/interfaces/http/dto"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	// recountScheduler is optional; nil when the nightly recount is
	// disabled
	recountScheduler *scheduler.RecountScheduler
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(recountScheduler *scheduler.RecountScheduler) *SystemHandler {
	return &SystemHandler{
		startTime:        time.Now(),
		recountScheduler: recountScheduler,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns build and uptime information
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Mess Hall Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers liveness probes
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetSchedulerStatus reports the nightly recount scheduler's state
func (h *SystemHandler) GetSchedulerStatus(c *gin.Context) {
	if h.recountScheduler == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}

	h.Success(c, h.recountScheduler.GetStatus())
}

// TriggerRecount runs the attendance recount immediately
func (h *SystemHandler) TriggerRecount(c *gin.Context) {
	if h.recountScheduler == nil {
		h.Error(c, http.StatusServiceUnavailable, "ERR_INVALID_STATE", "Recount scheduler is not enabled")
		return
	}

	if err := h.recountScheduler.TriggerManualRun(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Recount triggered"})
}
