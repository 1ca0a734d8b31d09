package handlers

import (
	"net/http"

	"coursemate_backend/internal/services"
	"coursemate_backend/internal/services/dto"
	"coursemate_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type MarketHandler struct {
	*BaseHandler
	marketService services.MarketService
}

func NewMarketHandler(base *BaseHandler, marketService services.MarketService) *MarketHandler {
	return &MarketHandler{
		BaseHandler:   base,
		marketService: marketService,
	}
}

// RegisterRoutes: notifyLimit вешается на запросы, которые шлют уведомления
func (h *MarketHandler) RegisterRoutes(r *gin.RouterGroup, notifyLimit gin.HandlerFunc) {
	market := r.Group("/market")
	{
		market.POST("/items", h.CreateItem)
		market.GET("/items", h.ListItems)
		market.POST("/wishlist", h.AddToWishlist)
		market.GET("/wishlist", h.GetWishlist)
		market.GET("/search", h.SearchItems)
		market.POST("/related", h.RelatedItems)
		market.POST("/interest", notifyLimit, h.ShowInterest)
		market.POST("/images", h.UploadImage)
	}
}

// CreateItem godoc
// @Summary Создать объявление
// @Tags market
// @Accept json
// @Produce json
// @Param item body dto.CreateItemRequest true "Объявление"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/items [post]
func (h *MarketHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if _, err := h.marketService.CreateItem(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Item added successfully"})
}

// ListItems godoc
// @Summary Все объявления
// @Tags market
// @Produce json
// @Success 200 {array} models.Item
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/items [get]
func (h *MarketHandler) ListItems(c *gin.Context) {
	items, err := h.marketService.ListItems(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToWishlist godoc
// @Summary Добавить объявление в избранное
// @Tags market
// @Accept json
// @Produce json
// @Param request body dto.WishlistRequest true "Пользователь и объявление"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Уже в избранном"
// @Router /market/wishlist [post]
func (h *MarketHandler) AddToWishlist(c *gin.Context) {
	var req dto.WishlistRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.marketService.AddToWishlist(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Item added to wishlist"})
}

// GetWishlist godoc
// @Summary Избранное пользователя
// @Tags market
// @Produce json
// @Param userId query string true "ID пользователя"
// @Success 200 {array} models.WishlistEntry
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/wishlist [get]
func (h *MarketHandler) GetWishlist(c *gin.Context) {
	var query dto.WishlistQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	list, err := h.marketService.GetWishlist(c.Request.Context(), query.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SearchItems godoc
// @Summary Поиск объявлений по словам названия
// @Tags market
// @Produce json
// @Param searchQuery query string false "Запрос"
// @Success 200 {array} models.Item
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/search [get]
func (h *MarketHandler) SearchItems(c *gin.Context) {
	var query dto.ItemSearchQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	items, err := h.marketService.SearchItems(c.Request.Context(), query.SearchQuery)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// RelatedItems godoc
// @Summary Похожие объявления
// @Description Совпадения по ключевым словам, затем по категории. Исходное объявление исключается.
// @Tags market
// @Accept json
// @Produce json
// @Param request body dto.RelatedItemsRequest true "Исходное объявление"
// @Success 200 {array} models.Item
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/related [post]
func (h *MarketHandler) RelatedItems(c *gin.Context) {
	var req dto.RelatedItemsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	items, err := h.marketService.RelatedItems(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ShowInterest godoc
// @Summary Сообщить продавцу об интересе
// @Tags market
// @Accept json
// @Produce json
// @Param request body dto.ShowInterestRequest true "Пользователь и объявление"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /market/interest [post]
func (h *MarketHandler) ShowInterest(c *gin.Context) {
	var req dto.ShowInterestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.marketService.ShowInterest(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Seller notified"})
}

// UploadImage godoc
// @Summary Загрузить картинку объявления
// @Tags market
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Картинка (jpeg, png)"
// @Success 200 {object} dto.URLResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /market/images [post]
func (h *MarketHandler) UploadImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart field 'image' is required"))
		return
	}
	defer file.Close()

	url, err := h.marketService.UploadImage(c.Request.Context(), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.URLResponse{URL: url})
}
