package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// StateHandler exposes the user's preferences.
type StateHandler struct {
	state *app.StateStore
}

// NewStateHandler creates a new state handler.
func NewStateHandler(state *app.StateStore) *StateHandler {
	return &StateHandler{state: state}
}

// StateResponse is the full app state.
type StateResponse struct {
	Theme             string          `json:"theme"`
	Language          string          `json:"language"`
	HasSeenOnboarding bool            `json:"hasSeenOnboarding"`
	Favorites         []QuoteResponse `json:"favorites"`
}

func toStateResponse(s domain.AppState) StateResponse {
	return StateResponse{
		Theme:             string(s.Theme),
		Language:          string(s.Language),
		HasSeenOnboarding: s.HasSeenOnboarding,
		Favorites:         toQuoteResponses(s.Favorites),
	}
}

// ThemeRequest is the body of PUT /api/v1/state/theme.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// LanguageRequest is the body of PUT /api/v1/state/language.
type LanguageRequest struct {
	Language string `json:"language" validate:"required,language"`
}

// GetState handles GET /api/v1/state
//
// @Summary Get app state
// @Tags state
// @Produce json
// @Success 200 {object} StateResponse
// @Router /api/v1/state [get]
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.state.State()))
}

// SetTheme handles PUT /api/v1/state/theme
//
// @Summary Change the theme
// @Tags state
// @Accept json
// @Produce json
// @Param request body ThemeRequest true "dark or light"
// @Success 200 {object} StateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/state/theme [put]
func (h *StateHandler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if err := h.state.SetTheme(c.Request.Context(), domain.Theme(req.Theme)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(h.state.State()))
}

// SetLanguage handles PUT /api/v1/state/language
//
// @Summary Change the UI language
// @Tags state
// @Accept json
// @Produce json
// @Param request body LanguageRequest true "pt, en or ja"
// @Success 200 {object} StateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/state/language [put]
func (h *StateHandler) SetLanguage(c *gin.Context) {
	var req LanguageRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	if err := h.state.SetLanguage(c.Request.Context(), domain.Language(req.Language)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStateResponse(h.state.State()))
}

// CompleteOnboarding handles POST /api/v1/state/onboarding
//
// @Summary Mark onboarding as seen
// @Tags state
// @Produce json
// @Success 200 {object} StateResponse
// @Router /api/v1/state/onboarding [post]
func (h *StateHandler) CompleteOnboarding(c *gin.Context) {
	h.state.MarkOnboardingComplete(c.Request.Context())
	c.JSON(http.StatusOK, toStateResponse(h.state.State()))
}

// RegisterStateRoutes registers state routes on the given router group.
func (h *StateHandler) RegisterStateRoutes(rg *gin.RouterGroup) {
	state := rg.Group("/state")
	state.GET("", h.GetState)
	state.PUT("/theme", h.SetTheme)
	state.PUT("/language", h.SetLanguage)
	state.POST("/onboarding", h.CompleteOnboarding)
}
