package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/request"
	"meditation-assistant-backend/response"
	"meditation-assistant-backend/service/library"
	"meditation-assistant-backend/service/library/etl"
	"meditation-assistant-backend/service/mq"

	"github.com/gin-gonic/gin"
)

// 管理端直传上传目录前缀
const assetUploadDir = "materials/"

type MaterialController struct {
	Store     *dao.Store
	Publisher mq.Publisher
	Searcher  library.Searcher
}

func NewMaterialController(store *dao.Store, publisher mq.Publisher, searcher library.Searcher) *MaterialController {
	return &MaterialController{
		Store:     store,
		Publisher: publisher,
		Searcher:  searcher,
	}
}

func (ctrl *MaterialController) GetMaterials(c *gin.Context) {
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	materials, err := ctrl.Store.ListMaterials(c.Request.Context(), uint(categoryID))
	if err != nil {
		slog.Error(ErrGetMaterials.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetMaterials.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.NewMaterialsResponse(materials),
	})
}

func (ctrl *MaterialController) GetMaterial(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	material, err := ctrl.Store.GetMaterialByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrMaterialNotFound.Error(),
			})
			return
		}
		slog.Error(ErrGetMaterials.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetMaterials.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.NewMaterialResponse(*material),
	})
}

// SearchMaterials 语义检索素材库
func (ctrl *MaterialController) SearchMaterials(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	ids, err := ctrl.Searcher.Search(c.Request.Context(), query, intQuery(c, "limit", 0))
	if err != nil {
		slog.Error(ErrSearchMaterials.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrSearchMaterials.Error(),
		})
		return
	}

	materials, err := ctrl.Store.GetMaterialsByIDs(c.Request.Context(), ids)
	if err != nil {
		slog.Error(ErrSearchMaterials.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrSearchMaterials.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.NewMaterialsResponse(materials),
	})
}

// GetAudioLink 为素材音频生成限时下载链接
func (ctrl *MaterialController) GetAudioLink(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	material, err := ctrl.Store.GetMaterialByID(c.Request.Context(), id)
	if err != nil || material.AudioObjectName == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
			Msg: ErrMaterialNotFound.Error(),
		})
		return
	}

	url, err := library.GeneratePresignedURL(c.Request.Context(), material.AudioObjectName)
	if err != nil {
		slog.Error(ErrGetAudioLink.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGetAudioLink.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.GetAudioLinkResponse{
			URL: url,
		},
	})
}

func (ctrl *MaterialController) CreateMaterial(c *gin.Context) {
	var req request.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	material := model.Material{
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		DurationSeconds: req.DurationSeconds,
		IndexStatus:     model.IndexStatusPending,
	}
	if err := ctrl.Store.CreateMaterial(c.Request.Context(), &material); err != nil {
		slog.Error(ErrCreateMaterial.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrCreateMaterial.Error(),
		})
		return
	}

	ctrl.enqueueIndexTask(c, material.ID)

	c.JSON(http.StatusCreated, response.Response{
		Data: response.NewMaterialResponse(material),
	})
}

func (ctrl *MaterialController) UpdateMaterial(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	material := model.Material{
		ID:              id,
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		DurationSeconds: req.DurationSeconds,
	}
	if err := ctrl.Store.UpdateMaterial(c.Request.Context(), &material); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrMaterialNotFound.Error(),
			})
			return
		}
		slog.Error(ErrUpdateMaterial.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUpdateMaterial.Error(),
		})
		return
	}

	// 标题或简介变更需要重建向量索引
	ctrl.enqueueIndexTask(c, id)

	c.JSON(http.StatusOK, response.Response{})
}

// DeleteMaterial 删除素材记录，向量和OSS对象由MQ任务异步清理
func (ctrl *MaterialController) DeleteMaterial(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	material, err := ctrl.Store.GetMaterialByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrMaterialNotFound.Error(),
			})
			return
		}
		slog.Error(ErrDeleteMaterial.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteMaterial.Error(),
		})
		return
	}

	if err := ctrl.Store.DeleteMaterial(c.Request.Context(), id); err != nil {
		slog.Error(ErrDeleteMaterial.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrDeleteMaterial.Error(),
		})
		return
	}

	if err := ctrl.Publisher.SendMessage(c.Request.Context(), &mq.Message{
		Topic: mq.TopicMaterialLibrary,
		Tag:   mq.TagDelete,
		Payload: etl.DeleteMessage{
			MaterialID:       id,
			AudioObjectName:  material.AudioObjectName,
			ScriptObjectName: material.ScriptObjectName,
		},
	}); err != nil {
		slog.Error("failed to enqueue delete task", "material_id", id, "err", err)
	}

	c.JSON(http.StatusOK, response.Response{})
}

// GetPolicyToken 前端直传素材文件至OSS的凭证
func (ctrl *MaterialController) GetPolicyToken(c *gin.Context) {
	policyToken, err := library.GeneratePolicyToken(assetUploadDir)
	if err != nil {
		slog.Error(ErrGeneratePolicyToken.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGeneratePolicyToken.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: policyToken,
	})
}

// RegisterAsset 在前端将文件成功传输到OSS后调用，登记对象路径并触发重建索引
func (ctrl *MaterialController) RegisterAsset(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.MaterialAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	err := ctrl.Store.UpdateMaterialAsset(c.Request.Context(), id,
		req.AudioObjectName, req.ScriptObjectName, model.ScriptType(req.ScriptType))
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, response.Response{
				Msg: ErrMaterialNotFound.Error(),
			})
			return
		}
		slog.Error(ErrRegisterAsset.Error(), "material_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrRegisterAsset.Error(),
		})
		return
	}

	ctrl.enqueueIndexTask(c, id)

	c.JSON(http.StatusOK, response.Response{})
}

func (ctrl *MaterialController) enqueueIndexTask(c *gin.Context, materialID uint) {
	if err := ctrl.Publisher.SendMessage(c.Request.Context(), &mq.Message{
		Topic: mq.TopicMaterialLibrary,
		Tag:   mq.TagIndex,
		Payload: etl.IndexMessage{
			MaterialID: materialID,
		},
	}); err != nil {
		slog.Error("failed to enqueue index task", "material_id", materialID, "err", err)
	}
}
