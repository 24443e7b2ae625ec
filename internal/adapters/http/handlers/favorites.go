package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Augusto240/sasuke-quotes-app/internal/adapters/http/dto"
	"github.com/Augusto240/sasuke-quotes-app/internal/app"
	"github.com/Augusto240/sasuke-quotes-app/internal/domain"
)

// FavoritesHandler manages the favorites collection.
type FavoritesHandler struct {
	state *app.StateStore
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(state *app.StateStore) *FavoritesHandler {
	return &FavoritesHandler{state: state}
}

// FavoriteRequest is a quote to add to or toggle in the favorites.
type FavoriteRequest struct {
	ID       *int   `json:"id"       validate:"required,min=0"`
	Quote    string `json:"quote"    validate:"required,notempty"`
	Source   string `json:"source"`
	Context  string `json:"context"`
	Category string `json:"category"`
}

func (r FavoriteRequest) toDomain() domain.Quote {
	return domain.Quote{
		ID:       *r.ID,
		Quote:    r.Quote,
		Source:   r.Source,
		Context:  r.Context,
		Category: r.Category,
	}
}

// FavoritesResponse lists favorites, oldest first.
type FavoritesResponse struct {
	Count     int             `json:"count"`
	Favorites []QuoteResponse `json:"favorites"`
}

// FavoriteStatusResponse reports membership of one quote.
type FavoriteStatusResponse struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
}

// ListFavorites handles GET /api/v1/favorites
//
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Success 200 {object} FavoritesResponse
// @Router /api/v1/favorites [get]
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	favorites := h.state.Favorites()

	c.JSON(http.StatusOK, FavoritesResponse{
		Count:     len(favorites),
		Favorites: toQuoteResponses(favorites),
	})
}

// AddFavorite handles POST /api/v1/favorites
// Returns 201 when the quote was added and 200 when it already was a favorite.
//
// @Summary Add a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body FavoriteRequest true "Quote"
// @Success 201 {object} FavoriteStatusResponse
// @Success 200 {object} FavoriteStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote := req.toDomain()

	status := http.StatusOK
	if h.state.AddFavorite(c.Request.Context(), quote) {
		status = http.StatusCreated
	}

	c.JSON(status, FavoriteStatusResponse{ID: quote.ID, Favorite: true})
}

// ToggleFavorite handles POST /api/v1/favorites/toggle
//
// @Summary Toggle a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body FavoriteRequest true "Quote"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites/toggle [post]
func (h *FavoritesHandler) ToggleFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	quote := req.toDomain()
	favorite := h.state.ToggleFavorite(c.Request.Context(), quote)

	c.JSON(http.StatusOK, FavoriteStatusResponse{ID: quote.ID, Favorite: favorite})
}

// GetFavorite handles GET /api/v1/favorites/:id
//
// @Summary Check whether a quote is a favorite
// @Tags favorites
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} FavoriteStatusResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites/{id} [get]
func (h *FavoritesHandler) GetFavorite(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, FavoriteStatusResponse{ID: id, Favorite: h.state.IsFavorite(id)})
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id
// Removing an ID that is not a favorite is not an error.
//
// @Summary Remove a favorite
// @Tags favorites
// @Param id path int true "Quote ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/favorites/{id} [delete]
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	id, ok := favoriteID(c)
	if !ok {
		return
	}

	h.state.RemoveFavorite(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// favoriteID parses the :id path parameter, writing a 400 when it is not an integer.
func favoriteID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "favorite id must be an integer")
		return 0, false
	}

	return id, true
}

// RegisterFavoritesRoutes registers favorites routes on the given router group.
func (h *FavoritesHandler) RegisterFavoritesRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	favorites.GET("", h.ListFavorites)
	favorites.POST("", h.AddFavorite)
	favorites.POST("/toggle", h.ToggleFavorite)
	favorites.GET("/:id", h.GetFavorite)
	favorites.DELETE("/:id", h.RemoveFavorite)
}
