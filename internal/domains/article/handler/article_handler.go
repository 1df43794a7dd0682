package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"angeles-backend/internal/domains/article/model"
	"angeles-backend/internal/domains/article/service"
	"angeles-backend/internal/shared/apperror"
	"angeles-backend/internal/shared/middleware"
	"angeles-backend/internal/shared/response"
	"angeles-backend/internal/shared/utils"
)

type ArticleHandler struct {
	service service.Service
}

func NewArticleHandler(service service.Service) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// ========================================
// PUBLIC ENDPOINTS
// ========================================

// ListArticles handles GET /content
// Query: status, author, category, page, limit
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, apperror.Validation("query: page and limit must be integers"))
		return
	}

	result, err := h.service.ListArticles(c.Request.Context(), middleware.CurrentPrincipal(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Articles, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: utils.TotalPages(result.Total, result.Limit),
	})
}

// GetArticle handles GET /content/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	article, err := h.service.GetArticle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", article)
}

// LikeArticle handles POST /content/:id/like
func (h *ArticleHandler) LikeArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.LikeArticle(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Article liked", result)
}

// ========================================
// AUTHENTICATED ENDPOINTS
// ========================================

// CreateArticle handles POST /content
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req model.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.service.CreateArticle(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Location", "/api/v1/content/"+article.ID.String())
	response.Success(c, http.StatusCreated, "Article created successfully", article)
}

// UpdateArticle handles PUT /content/:id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.service.UpdateArticle(c.Request.Context(), id, middleware.CurrentPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Article updated successfully", article)
}

// DeleteArticle handles DELETE /content/:id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), id, middleware.CurrentPrincipal(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Article deleted successfully", nil)
}

// GetStatistics handles GET /content/stats
func (h *ArticleHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", stats)
}

// ========================================
// HELPERS
// ========================================

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, apperror.Validation("body: invalid JSON request body"))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id := utils.ParseStringToUUID(c.Param("id"))
	if id == uuid.Nil {
		response.Error(c, apperror.Validation("id: must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
