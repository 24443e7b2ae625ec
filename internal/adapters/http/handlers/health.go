// Package handlers holds the gin handlers of the probe and API routes.
package handlers

import (
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

const unknown = "unknown"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo takes the values injected with -ldflags. A commit or build
// time left "unknown" or empty is filled from the VCS stamp of the binary.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	bi := BuildInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}

	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && isUnset(bi.Commit):
			bi.Commit = s.Value
		case s.Key == "vcs.time" && isUnset(bi.BuildTime):
			bi.BuildTime = s.Value
		}
	}

	return bi
}

func isUnset(v string) bool { return v == "" || v == unknown }

// HealthHandler serves the /-/ probes.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	started   time.Time
}

// NewHealthHandler creates a handler reporting on registry.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{registry: registry, buildInfo: buildInfo, started: time.Now()}
}

type livenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Liveness answers 200 while the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// Readiness runs the registered checks. It answers 503 only when a required
// dependency is down; a degraded result still takes traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{Status: string(result.Status), Checks: result.Checks})
}

// Build returns the BuildInfo.
func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// RegisterHealthRoutesOnEngine mounts live, ready, build and metrics under /-.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	probes := engine.Group("/-")
	probes.GET("/live", h.Liveness)
	probes.GET("/ready", h.Readiness)
	probes.GET("/build", h.Build)
	probes.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
