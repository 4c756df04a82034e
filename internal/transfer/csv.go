// Package transfer moves decks in and out of the app as files. CSV carries
// cards alone; YAML carries a whole deck including its metadata.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/snakada/flipcard/internal/flashcard"
)

var (
	ErrEmptyFile             = errors.New("file contains no rows")
	ErrMissingContentColumns = errors.New("rows must contain columns for front and back content")
	ErrNoCards               = errors.New("no valid cards found")
)

// CardContent is an imported card before it has an identity. The caller
// assigns ids when it creates the cards.
type CardContent struct {
	Front flashcard.CardFace
	Back  flashcard.CardFace
}

// columnMap locates the card fields in a row. Title columns are optional and
// stay at -1 when absent.
type columnMap struct {
	frontTitle   int
	frontContent int
	backTitle    int
	backContent  int
}

// normalizeHeaderKey folds a header cell to its comparable form: lowercased
// with everything but letters and digits stripped, so "Front Title" and
// "front_title" match the same column.
func normalizeHeaderKey(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func headerIndex(headers map[string]int, keys ...string) int {
	for _, key := range keys {
		if index, ok := headers[key]; ok {
			return index
		}
	}
	return -1
}

// resolveColumns decides the column layout from the first row. A row whose
// cells name any of the known card columns is treated as a header; otherwise
// the layout is positional: four or more columns are
// front-title/front-content/back-title/back-content, two or three columns are
// front-content/back-content.
func resolveColumns(firstRow []string) (columnMap, bool, error) {
	headers := map[string]int{}
	for index, cell := range firstRow {
		if key := normalizeHeaderKey(cell); key != "" {
			if _, exists := headers[key]; !exists {
				headers[key] = index
			}
		}
	}

	hasHeader := false
	for _, key := range []string{"fronttitle", "frontcontent", "front", "backtitle", "backcontent", "back"} {
		if _, ok := headers[key]; ok {
			hasHeader = true
			break
		}
	}

	if hasHeader {
		columns := columnMap{
			frontTitle:   headerIndex(headers, "fronttitle", "frontheading"),
			frontContent: headerIndex(headers, "frontcontent", "front"),
			backTitle:    headerIndex(headers, "backtitle", "backheading"),
			backContent:  headerIndex(headers, "backcontent", "back"),
		}
		if columns.frontContent < 0 || columns.backContent < 0 {
			return columnMap{}, false, fmt.Errorf("header %w", ErrMissingContentColumns)
		}
		return columns, true, nil
	}

	switch {
	case len(firstRow) >= 4:
		return columnMap{frontTitle: 0, frontContent: 1, backTitle: 2, backContent: 3}, false, nil
	case len(firstRow) >= 2:
		return columnMap{frontTitle: -1, frontContent: 0, backTitle: -1, backContent: 1}, false, nil
	default:
		return columnMap{}, false, ErrMissingContentColumns
	}
}

func cellValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV reads cards from CSV. Rows where both content cells are empty are
// skipped, as are rows carrying only one side; at least one complete card must
// survive or the import fails.
func ImportCSV(r io.Reader) ([]CardContent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv.Read > %w", err)
		}
		if !emptyRow(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns, hasHeader, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}
	if hasHeader {
		rows = rows[1:]
	}

	var cards []CardContent
	for _, row := range rows {
		front := cellValue(row, columns.frontContent)
		back := cellValue(row, columns.backContent)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, CardContent{
			Front: flashcard.CardFace{Title: cellValue(row, columns.frontTitle), Content: front},
			Back:  flashcard.CardFace{Title: cellValue(row, columns.backTitle), Content: back},
		})
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

// ExportCSV writes the deck's cards with a four-column header.
func ExportCSV(w io.Writer, deck flashcard.Deck) error {
	if len(deck.Cards) == 0 {
		return ErrNoCards
	}

	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	if err := writer.Write([]string{"front_title", "front_content", "back_title", "back_content"}); err != nil {
		return fmt.Errorf("csv.Write > %w", err)
	}
	for _, card := range deck.Cards {
		row := []string{card.Front.Title, card.Front.Content, card.Back.Title, card.Back.Content}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csv.Write > %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv.Flush > %w", err)
	}
	return nil
}

// ExportFileName derives a safe file name from the deck title.
func ExportFileName(title, extension string) string {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		trimmed = "deck"
	}
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, trimmed)
	return sanitized + "." + extension
}
