// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, cells map[string]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func wordFile(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Quarterly</w:t></w:r><w:r><w:t xml:space="preserve"> report</w:t></w:r></w:p>
<w:p><w:r><w:t>Total:</w:t><w:tab/><w:t>42 &amp; rising</w:t><w:br/><w:t>done</w:t></w:r></w:p>
<w:p/>
</w:body></w:document>`

func TestSpreadsheet(t *testing.T) {
	data := workbook(t, map[string]interface{}{
		"A1": "Name", "B1": "Qty", "D1": "Name",
		"A2": "apple", "B2": 3, "D2": "red",
		"A4": "007", "B4": 2.5, "C4": "x<y",
	})

	got, err := Spreadsheet.Extract("stock.xlsx", data)
	require.NoError(t, err)
	want := `[
  {
    "Name": "apple",
    "Qty": 3,
    "Name_1": "red"
  },
  {
    "Name": "007",
    "Qty": 2.5,
    "__EMPTY": "x<y"
  }
]`
	assert.Equal(t, want, got)
}

func TestSpreadsheet_HeaderOnly(t *testing.T) {
	got, err := Spreadsheet.Extract("empty.xlsx", workbook(t, map[string]interface{}{"A1": "Name"}))
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestSpreadsheet_Corrupt(t *testing.T) {
	_, err := Spreadsheet.Extract("bad.xlsx", []byte("not a workbook"))
	assert.Error(t, err)
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{"a", "", "a", "", "a"}, 6)
	assert.Equal(t, []string{"a", "__EMPTY", "a_1", "__EMPTY_1", "a_2", "__EMPTY_2"}, got)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 42.0, cellValue("42"))
	assert.Equal(t, -0.5, cellValue("-0.5"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "1e5", cellValue("1e5"))
	assert.Equal(t, "NaN", cellValue("NaN"))
	assert.Equal(t, "apple", cellValue("apple"))
}

func TestWordDocument(t *testing.T) {
	data := wordFile(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   documentXML,
	})

	got, err := WordDocument.Extract("report.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report\n\nTotal:\t42 & rising\ndone\n\n", got)
}

func TestWordDocument_Errors(t *testing.T) {
	_, err := WordDocument.Extract("x.docx", wordFile(t, map[string]string{"word/styles.xml": "<w/>"}))
	assert.ErrorIs(t, err, ErrNoDocumentBody)

	_, err = WordDocument.Extract("x.docx", []byte("PK\x03\x04"))
	assert.Error(t, err)

	_, err = WordDocument.Extract("x.docx", wordFile(t, map[string]string{"word/document.xml": "<w:document><w:p>"}))
	assert.Error(t, err)
}

func TestAttacher_OfficeFormats(t *testing.T) {
	dir := t.TempDir()
	sheet := writeFile(t, dir, "Stock.XLSX", workbook(t, map[string]interface{}{"A1": "Item", "A2": "pen"}))
	doc := writeFile(t, dir, "memo.docx", wordFile(t, map[string]string{"word/document.xml": documentXML}))

	got, err := New().Message(sheet, doc)
	require.NoError(t, err)
	assert.Contains(t, got, "File: Stock.XLSX\n\nContent:\n[\n  {\n    \"Item\": \"pen\"\n  }\n]\n---")
	assert.Contains(t, got, "File: memo.docx\n\nContent:\nQuarterly report")

	_, err = New().Load([]string{writeFile(t, dir, "old.xls", []byte{0xd0, 0xcf})})
	assert.ErrorIs(t, err, ErrUnsupported)
}
