package processor

import (
	"context"

	"meditation-assistant-backend/model"
)

const (
	chunkSize    = 4000
	chunkOverlap = 200
)

// ScriptProcessor 引导文稿切分处理器
type ScriptProcessor interface {
	// 判断是否支持传入的文稿类型
	CanProcess(scriptType model.ScriptType) bool

	// 切分文稿为待向量化的文本块
	Split(ctx context.Context, data []byte) ([]string, error)
}
