package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"taxextract/internal/domain"
)

func testRows() []domain.Extraction {
	v := "JANE DOE"
	c := 0.9612
	return []domain.Extraction{
		{
			ClientID: "client-1", DocName: "w2.pdf", DocURL: "https://bucket/client-1/w2.pdf",
			DocType: domain.FormTypeW2, DocumentIndex: 0, FieldName: "Employee_Name",
			FieldValue: &v, Confidence: &c, DocStatus: domain.DocStatusExtracted, AccessID: "acc-1",
			CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ClientID: "client-1", DocName: "w2.pdf", DocType: domain.FormTypeW2, DocumentIndex: 1,
			FieldName: "TaxYear", DocStatus: domain.DocStatusExtracted,
			CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	f, ok = ParseFormat("xlsx")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)

	_, ok = ParseFormat("pdf")
	assert.False(t, ok)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testRows()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, BOM))

	records, err := csv.NewReader(bytes.NewReader(raw[len(BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, "Employee_Name", records[1][5])
	assert.Equal(t, "JANE DOE", records[1][6])
	assert.Equal(t, "0.961", records[1][7])
	assert.Equal(t, "2024-02-01T10:00:00Z", records[1][10])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, "1", records[2][4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Field Name", rows[0][5])
	assert.Equal(t, "Employee_Name", rows[1][5])
	assert.Equal(t, "JANE DOE", rows[1][6])

	conf, err := f.GetCellValue(sheetName, "H2")
	require.NoError(t, err)
	assert.Equal(t, "0.961", conf)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("pdf"), nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "client_1_W-2_2023", SanitizeFilename("client 1 / W-2 (2023)"))
	assert.Equal(t, "extractions", SanitizeFilename("///"))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("a"), 150))), 100)
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "client-1_2024-03-09.csv", BuildFilename("client-1", "", FormatCSV, day))
	assert.Equal(t, "client-1_w2_2023_2024-03-09.xlsx", BuildFilename("client-1", "w2 2023.pdf", FormatXLSX, day))
}
