// Package handler provides HTTP handlers for the Offboard API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/offboard/offboard/internal/api/models"
	"github.com/offboard/offboard/internal/api/response"
	"github.com/offboard/offboard/internal/featureflags"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	readiness func(context.Context) error
	flags     *featureflags.Service
}

// OpsConfig holds configuration for the ops handler.
type OpsConfig struct {
	Version   string
	BuildTime string

	// Readiness pings the service's hard dependencies (database).
	// Nil means the service is always ready.
	Readiness func(context.Context) error

	// Flags is consulted for active degradation flags in the status
	// report. Optional.
	Flags *featureflags.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		readiness: cfg.Readiness,
		flags:     cfg.Flags,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.readiness != nil {
		if err := h.readiness(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"error": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	dbStatus := models.HealthStatusOK
	if h.readiness != nil {
		if err := h.readiness(r.Context()); err != nil {
			dbStatus = models.HealthStatusFail
		}
	}

	status := models.SystemStatus{
		Status: dbStatus,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "postgres", Status: dbStatus},
		},
	}

	if h.flags != nil {
		if h.flags.IsDeletionFrozen(r.Context()) {
			status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, featureflags.FlagFreezeDeletionRequests)
		}
		if h.flags.AreNotificationsDisabled(r.Context()) {
			status.ActiveDegradationFlags = append(status.ActiveDegradationFlags, featureflags.FlagDisableLifecycleNotifications)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
