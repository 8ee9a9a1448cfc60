// Package xlsx loads benchmark QA sets from spreadsheet files. The first
// sheet must carry a header row with question/answer/source_chunk columns;
// a document_id column is optional.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ragbench/chunkbench/internal/core/domain"
)

type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Load(ctx context.Context) ([]domain.GroundTruthAnswer, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open qa spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("qa spreadsheet %s has no sheets", l.path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("qa spreadsheet %s has no data rows", l.path)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("qa spreadsheet %s: %w", l.path, err)
	}

	truths := make([]domain.GroundTruthAnswer, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		qa := domain.GroundTruthAnswer{
			Question:    cell(row, columns.question),
			Answer:      cell(row, columns.answer),
			SourceChunk: cell(row, columns.sourceChunk),
			DocumentID:  cell(row, columns.documentID),
		}
		if qa.Question == "" && qa.SourceChunk == "" {
			continue // blank row
		}
		if qa.Question == "" || qa.SourceChunk == "" {
			return nil, fmt.Errorf("qa spreadsheet %s row %d: question and source_chunk are required", l.path, i+2)
		}
		truths = append(truths, qa)
	}

	if len(truths) == 0 {
		return nil, fmt.Errorf("qa spreadsheet %s has no usable rows", l.path)
	}
	return truths, nil
}

type columnMap struct {
	question    int
	answer      int
	sourceChunk int
	documentID  int
}

func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{question: -1, answer: -1, sourceChunk: -1, documentID: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			columns.question = i
		case "answer":
			columns.answer = i
		case "source_chunk", "chunk", "source":
			columns.sourceChunk = i
		case "document_id", "doc_id":
			columns.documentID = i
		}
	}
	if columns.question < 0 {
		return columnMap{}, fmt.Errorf("missing question column")
	}
	if columns.sourceChunk < 0 {
		return columnMap{}, fmt.Errorf("missing source_chunk column")
	}
	return columns, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
