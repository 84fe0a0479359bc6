package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter(false)
	out, err := exporter.Render(Sheet{
		Headers: []string{"code", "name"},
		Rows:    [][]string{{"MST001", "Acme, Inc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "code,name\nMST001,\"Acme, Inc\"\n", string(out))
}

func TestCSVExporterBOMAndShapeErrors(t *testing.T) {
	out, err := NewCSVExporter(true).Render(Sheet{Headers: []string{"code"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "\ufeff"))

	_, err = NewCSVExporter(false).Render(Sheet{})
	assert.Error(t, err)

	_, err = NewCSVExporter(false).Render(Sheet{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	assert.Error(t, err)
}

func TestWorkbookRoundTripFirstSheet(t *testing.T) {
	data, err := NewWorkbookExporter().Render([]Sheet{
		{Name: "Clients", Headers: []string{"Client Name", "Sector"}, Rows: [][]string{{"Acme", "Retail"}}},
		{Name: "WorkItems", Headers: []string{"code"}, Rows: [][]string{{"MST001-IS001"}}},
	})
	require.NoError(t, err)

	rows, err := ReadFirstSheet(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Client Name", "Sector"}, {"Acme", "Retail"}}, rows)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()
	assert.Equal(t, []string{"Clients", "WorkItems"}, xl.GetSheetList())
}

func TestWorkbookRejectsEmpty(t *testing.T) {
	_, err := NewWorkbookExporter().Render(nil)
	assert.Error(t, err)
}

func TestSheetNamesAreSanitizedAndUnique(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "a_b", uniqueSheetName("a/b", used))
	assert.Equal(t, "a_b_2", uniqueSheetName("a:b", used))
	assert.Len(t, []rune(uniqueSheetName(strings.Repeat("x", 40), used)), maxSheetNameLength)
}

func TestReadFirstSheetRejectsGarbage(t *testing.T) {
	_, err := ReadFirstSheet(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestDocumentBytes(t *testing.T) {
	doc := NewDocument("Acme report")
	doc.Title("Acme - Agency Report")
	doc.Subtitle("Period: 01.01.2025 - 31.01.2025")
	doc.Heading("Summary")
	doc.Paragraph("12.5 hours over 3 days", true)
	doc.Table([]string{"Owner", "Items"}, [][]string{{"Ayse", "3"}, {"Mehmet"}})
	doc.Bullet("Banner - 05.01.2025")
	doc.PageBreak()
	doc.SubHeading("Conclusion")

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
