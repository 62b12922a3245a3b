package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/response"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newCategoryTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dao.AutoMigrate(db))

	ctrl := NewCategoryController(dao.New(db))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/category", ctrl.CreateCategory)
	r.PUT("/category/:id", ctrl.UpdateCategory)
	r.DELETE("/category/:id", ctrl.DeleteCategory)
	return r
}

func TestUpdateCategoryNotFound(t *testing.T) {
	r := newCategoryTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/category/999",
		strings.NewReader(`{"name":"sleep"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrCategoryNotFound.Error(), resp.Msg)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	r := newCategoryTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/category/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateThenUpdateCategory(t *testing.T) {
	r := newCategoryTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/category",
		strings.NewReader(`{"name":"sleep","emoji":"🌙","sort_order":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/category/1",
		strings.NewReader(`{"name":"deep sleep"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
