// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrNoDocumentBody is returned for a .docx without word/document.xml.
	ErrNoDocumentBody = errors.New("document body not found")
)

// maxDocumentXML caps the decompressed size of word/document.xml.
const maxDocumentXML = 32 << 20

// =============================================================================
// SPREADSHEETS
// =============================================================================

// Spreadsheet renders the first worksheet as an indented JSON array with one
// object per data row. Keys come from the header row; empty header cells
// become "__EMPTY", repeated headers get a "_1", "_2" suffix. Empty cells
// are omitted and blank rows skipped. Cells holding a plain number are
// emitted as JSON numbers.
var Spreadsheet = ExtractorFunc(func(_ string, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sheetRecords(rows)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
})

// sheetRecords keys every row after the first by the header row.
func sheetRecords(rows [][]string) []record {
	records := make([]record, 0, len(rows))
	if len(rows) == 0 {
		return records
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	headers := headerNames(rows[0], width)

	for _, row := range rows[1:] {
		var rec record
		for c, cell := range row {
			if cell == "" {
				continue
			}
			rec.keys = append(rec.keys, headers[c])
			rec.values = append(rec.values, cellValue(cell))
		}
		if len(rec.keys) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

func headerNames(row []string, width int) []string {
	seen := make(map[string]int, width)
	names := make([]string, width)
	for c := range names {
		base := ""
		if c < len(row) {
			base = row[c]
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		if n := seen[base]; n > 0 {
			name = base + "_" + strconv.Itoa(n)
		}
		seen[base]++
		names[c] = name
	}
	return names
}

// cellValue keeps text as a string and turns canonical numbers into floats,
// so "007" stays text while "42" and "3.5" become numbers.
func cellValue(s string) interface{} {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return s
	}
	if strconv.FormatFloat(v, 'f', -1, 64) != s {
		return s
	}
	return v
}

// record is a JSON object that keeps its keys in column order.
type record struct {
	keys   []string
	values []interface{}
}

// MarshalJSON implements json.Marshaler.
func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
		out.WriteByte(':')

		buf.Reset()
		if err := enc.Encode(r.values[i]); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// =============================================================================
// WORD DOCUMENTS
// =============================================================================

// WordDocument extracts the raw text of a .docx file: one paragraph per
// block, separated by a blank line. Tabs and line breaks inside runs are
// kept; formatting, images and fields are dropped.
var WordDocument = ExtractorFunc(func(_ string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		defer rc.Close()
		text, err := documentText(io.LimitReader(rc, maxDocumentXML))
		if err != nil {
			return "", err
		}
		return norm.NFC.String(text), nil
	}
	return "", ErrNoDocumentBody
})

// documentText walks WordprocessingML and collects run text per paragraph.
func documentText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras  []string
		para   strings.Builder
		inRun  int
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun++
			case "t":
				inText = inRun > 0
			case "tab":
				if inRun > 0 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun > 0 {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun--
			case "t":
				inText = false
			case "p":
				paras = append(paras, para.String())
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return strings.Join(paras, "\n\n"), nil
}
