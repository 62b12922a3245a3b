// Package etl 消费素材库MQ任务：向量化索引与清理。
package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"meditation-assistant-backend/dao"
	"meditation-assistant-backend/model"
	"meditation-assistant-backend/service/library"
	"meditation-assistant-backend/service/library/etl/processor"

	"github.com/apache/rocketmq-client-go/v2/primitive"
)

type IndexMessage struct {
	MaterialID uint `json:"material_id"`
}

type DeleteMessage struct {
	MaterialID       uint   `json:"material_id"`
	AudioObjectName  string `json:"audio_object_name"`
	ScriptObjectName string `json:"script_object_name"`
}

// Pipeline 素材索引流水线
type Pipeline struct {
	store      *dao.Store
	index      *library.Index
	processors []processor.ScriptProcessor
}

func NewPipeline(store *dao.Store, index *library.Index) *Pipeline {
	return &Pipeline{
		store: store,
		index: index,
		processors: []processor.ScriptProcessor{
			processor.NewMarkdownScriptProcessor(),
			processor.NewPDFScriptProcessor(),
		},
	}
}

// HandleIndexMessage 重建单个素材的向量索引：
// 标题与简介始终入索引，存在引导文稿时追加文稿切块
func (p *Pipeline) HandleIndexMessage(ctx context.Context, msg *primitive.MessageExt) error {
	var indexMessage IndexMessage
	if err := json.Unmarshal(msg.Body, &indexMessage); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %v", err)
	}

	material, err := p.store.GetMaterialByID(ctx, indexMessage.MaterialID)
	if err != nil {
		if err == dao.ErrNotFound {
			// 素材在任务消费前被删除，跳过
			slog.Warn("material gone before indexing", "material_id", indexMessage.MaterialID)
			return nil
		}
		return fmt.Errorf("failed to load material %d: %v", indexMessage.MaterialID, err)
	}

	texts, err := p.collectTexts(ctx, material)
	if err != nil {
		p.markFailed(ctx, material.ID)
		return err
	}

	// 先清掉旧向量再写入，保证重复索引幂等
	if err := p.index.DeleteMaterial(ctx, material.ID); err != nil {
		p.markFailed(ctx, material.ID)
		return err
	}
	if err := p.index.InsertChunks(ctx, material.ID, texts); err != nil {
		p.markFailed(ctx, material.ID)
		return err
	}

	if err := p.store.UpdateMaterialIndexStatus(ctx, material.ID, model.IndexStatusIndexed); err != nil {
		return fmt.Errorf("failed to update index status: %v", err)
	}

	slog.Info("material indexed",
		"material_id", material.ID,
		"chunks", len(texts),
	)
	return nil
}

// HandleDeleteMessage 清理已删除素材的向量和OSS对象
func (p *Pipeline) HandleDeleteMessage(ctx context.Context, msg *primitive.MessageExt) error {
	var deleteMessage DeleteMessage
	if err := json.Unmarshal(msg.Body, &deleteMessage); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %v", err)
	}

	if err := p.index.DeleteMaterial(ctx, deleteMessage.MaterialID); err != nil {
		return err
	}

	for _, objectName := range []string{deleteMessage.AudioObjectName, deleteMessage.ScriptObjectName} {
		if objectName == "" {
			continue
		}
		if err := library.DeleteObject(ctx, objectName); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) collectTexts(ctx context.Context, material *model.Material) ([]string, error) {
	texts := []string{material.Title + "\n" + material.Description}

	if material.ScriptObjectName == "" {
		return texts, nil
	}

	data, err := library.GetObject(ctx, material.ScriptObjectName)
	if err != nil {
		return nil, fmt.Errorf("failed to get script from oss: %v", err)
	}

	for _, proc := range p.processors {
		if !proc.CanProcess(material.ScriptType) {
			continue
		}
		chunks, err := proc.Split(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("failed to split script: %v", err)
		}
		return append(texts, chunks...), nil
	}

	return nil, fmt.Errorf("no processor found for script type: %s", material.ScriptType)
}

func (p *Pipeline) markFailed(ctx context.Context, materialID uint) {
	if err := p.store.UpdateMaterialIndexStatus(ctx, materialID, model.IndexStatusFailed); err != nil {
		slog.Error("failed to mark material index failure",
			"material_id", materialID,
			"err", err,
		)
	}
}
