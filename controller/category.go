package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/request"
	"meditation-assistant-backend/response"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Store *dao.Store
}

func NewCategoryController(store *dao.Store) *CategoryController {
	return &CategoryController{Store: store}
}

func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.Store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error(ErrGetCategories.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetCategories.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.NewCategoriesResponse(categories),
	})
}

func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	category := model.Category{
		Name:      req.Name,
		Emoji:     req.Emoji,
		SortOrder: req.SortOrder,
	}
	if err := ctrl.Store.CreateCategory(c.Request.Context(), &category); err != nil {
		slog.Error(ErrCreateCategory.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateCategory.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.NewCategoryResponse(category),
	})
}

func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	category := model.Category{
		ID:        id,
		Name:      req.Name,
		Emoji:     req.Emoji,
		SortOrder: req.SortOrder,
	}
	if err := ctrl.Store.UpdateCategory(c.Request.Context(), &category); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrCategoryNotFound.Error(),
			})
			return
		}
		slog.Error(ErrUpdateCategory.Error(), "category_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateCategory.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	if err := ctrl.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrCategoryNotFound.Error(),
			})
			return
		}
		slog.Error(ErrDeleteCategory.Error(), "category_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteCategory.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}
