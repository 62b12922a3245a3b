package library

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meditation-assistant-backend/config"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	CollectionName = "material_library"

	// text-embedding-v4 输出维度
	VectorDim = 1024

	embeddingBatchSize = 10
	defaultTopK        = 5
)

// Searcher 供搜索handler注入，测试时用假实现替换
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]uint, error)
}

// Index 素材向量索引：langchaingo embedder + Milvus
type Index struct {
	client   *milvusclient.Client
	embedder embeddings.Embedder
}

var _ Searcher = &Index{}

func NewIndex(ctx context.Context) (*Index, error) {
	llm, err := openai.New(
		openai.WithEmbeddingModel(config.Cfg.Model.EmbeddingModel),
		openai.WithToken(config.Cfg.Model.APIKey),
		openai.WithBaseURL(config.Cfg.Model.BaseURL),
		openai.WithHTTPClient(&http.Client{
			Timeout: 60 * time.Second,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(llm,
		embeddings.WithBatchSize(embeddingBatchSize),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %v", err)
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: config.Cfg.Milvus.Endpoint,
		APIKey:  config.Cfg.Milvus.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client: %v", err)
	}

	return &Index{
		client:   client,
		embedder: embedder,
	}, nil
}

// InsertChunks 向量化文本块并写入集合，每块携带所属素材ID
func (i *Index) InsertChunks(ctx context.Context, materialID uint, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vectors, err := i.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("error embedding material %d: %v", materialID, err)
	}

	materialIDs := make([]int64, len(texts))
	for j := range materialIDs {
		materialIDs[j] = int64(materialID)
	}

	columns := []column.Column{
		column.NewColumnInt64("material_id", materialIDs),
		column.NewColumnVarChar("text", texts),
		column.NewColumnFloatVector("vector", VectorDim, vectors),
	}

	insertOption := milvusclient.NewColumnBasedInsertOption(CollectionName).WithColumns(columns...)
	if _, err := i.client.Insert(ctx, insertOption); err != nil {
		return fmt.Errorf("error inserting material %d chunks: %v", materialID, err)
	}

	return nil
}

// DeleteMaterial 删除某个素材的全部向量，重建索引前也会调用
func (i *Index) DeleteMaterial(ctx context.Context, materialID uint) error {
	deleteOption := milvusclient.NewDeleteOption(CollectionName).
		WithExpr(fmt.Sprintf("material_id == %d", materialID))
	if _, err := i.client.Delete(ctx, deleteOption); err != nil {
		return fmt.Errorf("error deleting material %d vectors: %v", materialID, err)
	}
	return nil
}

// Search 语义检索，按相似度返回去重后的素材ID
func (i *Index) Search(ctx context.Context, query string, topK int) ([]uint, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	vector, err := i.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error embedding query: %v", err)
	}

	searchOption := milvusclient.NewSearchOption(CollectionName, topK, []entity.Vector{
		entity.FloatVector(vector),
	}).
		WithANNSField("vector").
		WithOutputFields("material_id")

	resultSets, err := i.client.Search(ctx, searchOption)
	if err != nil {
		return nil, fmt.Errorf("error searching materials: %v", err)
	}

	seen := make(map[uint]struct{})
	var ids []uint
	for _, rs := range resultSets {
		col := rs.GetColumn("material_id")
		if col == nil {
			continue
		}
		for j := 0; j < col.Len(); j++ {
			value, err := col.GetAsInt64(j)
			if err != nil {
				continue
			}
			id := uint(value)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func (i *Index) Close(ctx context.Context) error {
	return i.client.Close(ctx)
}
