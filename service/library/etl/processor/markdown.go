package processor

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"meditation-assistant-backend/model"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
)

// MarkdownScriptProcessor Markdown文稿切分处理器，兼容纯文本文稿
type MarkdownScriptProcessor struct {
	textSplitter textsplitter.TextSplitter
}

var _ ScriptProcessor = &MarkdownScriptProcessor{}

func NewMarkdownScriptProcessor() *MarkdownScriptProcessor {
	separators := []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}
	textSplitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithHeadingHierarchy(true), // 保留父级标题信息
		textsplitter.WithSecondSplitter(textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(separators),
		)),
	)

	return &MarkdownScriptProcessor{
		textSplitter: textSplitter,
	}
}

func (p *MarkdownScriptProcessor) CanProcess(scriptType model.ScriptType) bool {
	return scriptType == model.ScriptTypeMarkdown || scriptType == model.ScriptTypeText
}

func (p *MarkdownScriptProcessor) Split(ctx context.Context, data []byte) ([]string, error) {
	reader := bytes.NewReader(data)
	loader := documentloaders.NewText(reader)

	docs, err := loader.LoadAndSplit(ctx, p.textSplitter)
	if err != nil {
		return nil, fmt.Errorf("error loading and spliting markdown: %v", err)
	}

	// 过滤只有孤立标题的chunk
	headerOnlyRegex := regexp.MustCompile(`^\s*(?:#{1,6}\s+.+\n?)+\s*$`)

	var texts []string
	for _, doc := range docs {
		content := strings.TrimSpace(doc.PageContent)
		if content == "" {
			continue
		}
		if headerOnlyRegex.MatchString(content) {
			continue
		}
		texts = append(texts, doc.PageContent)
	}

	return texts, nil
}
