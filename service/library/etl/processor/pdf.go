package processor

import (
	"bytes"
	"context"
	"fmt"

	"meditation-assistant-backend/model"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/textsplitter"
)

// PDFScriptProcessor PDF文稿切分处理器
type PDFScriptProcessor struct {
	textSplitter textsplitter.TextSplitter
}

var _ ScriptProcessor = &PDFScriptProcessor{}

func NewPDFScriptProcessor() *PDFScriptProcessor {
	textSplitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}),
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	return &PDFScriptProcessor{
		textSplitter: textSplitter,
	}
}

func (p *PDFScriptProcessor) CanProcess(scriptType model.ScriptType) bool {
	return scriptType == model.ScriptTypePDF
}

func (p *PDFScriptProcessor) Split(ctx context.Context, data []byte) ([]string, error) {
	reader := bytes.NewReader(data)
	loader := documentloaders.NewPDF(reader, int64(len(data)))

	docs, err := loader.LoadAndSplit(ctx, p.textSplitter)
	if err != nil {
		return nil, fmt.Errorf("error loading and spliting pdf: %v", err)
	}

	var texts []string
	for _, doc := range docs {
		if doc.PageContent == "" {
			continue
		}
		texts = append(texts, doc.PageContent)
	}

	return texts, nil
}
