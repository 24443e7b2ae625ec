package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
	"github.com/Augusto240/sasuke-quotes-app/internal/ports"
)

// ReminderHandler manages the daily quote reminder.
type ReminderHandler struct {
	service   *app.ReminderService
	scheduler ports.NotificationScheduler
	state     *app.StateStore
	messages  app.Translator
}

// ReminderHandlerConfig contains the dependencies of a ReminderHandler.
type ReminderHandlerConfig struct {
	Service   *app.ReminderService
	Scheduler ports.NotificationScheduler
	State     *app.StateStore
	Messages  app.Translator
}

// NewReminderHandler creates a new reminder handler.
func NewReminderHandler(cfg ReminderHandlerConfig) *ReminderHandler {
	return &ReminderHandler{
		service:   cfg.Service,
		scheduler: cfg.Scheduler,
		state:     cfg.State,
		messages:  cfg.Messages,
	}
}

// ReminderRequest is the body of PUT /api/v1/reminder.
type ReminderRequest struct {
	Hour   *int `json:"hour"   validate:"required,min=0,max=23"`
	Minute *int `json:"minute" validate:"required,min=0,max=59"`
}

// ReminderResponse describes the reminder and its next delivery.
type ReminderResponse struct {
	Enabled bool       `json:"enabled"`
	Time    string     `json:"time"`
	Hour    int        `json:"hour"`
	Minute  int        `json:"minute"`
	Title   string     `json:"title,omitempty"`
	Body    string     `json:"body,omitempty"`
	NextRun *time.Time `json:"nextRun,omitempty"`
}

func (h *ReminderHandler) response(r domain.Reminder) ReminderResponse {
	resp := ReminderResponse{
		Enabled: r.Enabled,
		Time:    r.TimeOfDay(),
		Hour:    r.Hour,
		Minute:  r.Minute,
		Title:   r.Title,
		Body:    r.Body,
	}

	if r.Enabled && h.scheduler != nil {
		if pending := h.scheduler.Scheduled(); len(pending) > 0 {
			next := pending[0].NextRun
			resp.NextRun = &next
		}
	}

	return resp
}

// GetReminder handles GET /api/v1/reminder
//
// @Summary Get the daily reminder
// @Tags reminder
// @Produce json
// @Success 200 {object} ReminderResponse
// @Router /api/v1/reminder [get]
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	c.JSON(http.StatusOK, h.response(h.service.Status()))
}

// EnableReminder handles PUT /api/v1/reminder
// Replaces any scheduled reminder with one at the requested time.
//
// @Summary Enable the daily reminder
// @Tags reminder
// @Accept json
// @Produce json
// @Param request body ReminderRequest true "Time of day"
// @Success 200 {object} ReminderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/reminder [put]
func (h *ReminderHandler) EnableReminder(c *gin.Context) {
	var req ReminderRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	reminder, err := h.service.Enable(c.Request.Context(), *req.Hour, *req.Minute)
	if err != nil {
		if domain.IsForbidden(err) {
			dto.RespondWithErrorCode(c, dto.ErrorCodeForbidden, localize(h.messages, h.state, noticePermissionDenied))
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, h.response(reminder))
}

// DisableReminder handles DELETE /api/v1/reminder
//
// @Summary Disable the daily reminder
// @Tags reminder
// @Success 204
// @Router /api/v1/reminder [delete]
func (h *ReminderHandler) DisableReminder(c *gin.Context) {
	if err := h.service.Disable(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterReminderRoutes registers reminder routes on the given router group.
func (h *ReminderHandler) RegisterReminderRoutes(rg *gin.RouterGroup) {
	reminder := rg.Group("/reminder")
	reminder.GET("", h.GetReminder)
	reminder.PUT("", h.EnableReminder)
	reminder.DELETE("", h.DisableReminder)
}
