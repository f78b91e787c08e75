package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `CustomerID,Plan,Tenure,MonthlyCharges,Note
C1,pro,12,70.5,"late, twice"
C2,basic,3,,

C3,basic,40,20.25,NaN
`

func TestReadCSV(t *testing.T) {
	tbl, err := Read("customers.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"CustomerID", "Plan", "Tenure", "MonthlyCharges", "Note"}, tbl.Columns)
	require.Len(t, tbl.Records, 3)

	first := tbl.Records[0]
	assert.Equal(t, "C1", first.Value("CustomerID"))
	assert.Equal(t, int64(12), first.Value("Tenure"))
	assert.Equal(t, 70.5, first.Value("MonthlyCharges"))
	assert.Equal(t, "late, twice", first.Value("Note"))
	assert.Equal(t, tbl.Columns, first.Keys())

	assert.Nil(t, tbl.Records[1].Value("MonthlyCharges"))
	assert.Nil(t, tbl.Records[2].Value("Note"))
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	_, err := Read("customers.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadEmptyCSV(t *testing.T) {
	_, err := Read("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadExcel(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"CustomerID", "Tenure"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"C9", 7}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := Read("book.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"CustomerID", "Tenure"}, tbl.Columns)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, int64(7), tbl.Records[0].Value("Tenure"))
}

func TestCoerce(t *testing.T) {
	assert.Nil(t, Coerce("  "))
	assert.Equal(t, int64(-4), Coerce("-4"))
	assert.Equal(t, 0.5, Coerce("0.5"))
	assert.Equal(t, "Yes", Coerce("Yes"))
	assert.Equal(t, "Inf", Coerce("Inf"))
	assert.Nil(t, Coerce("NaN"))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "predicted.csv")
	records := []models.Record{
		models.RecordOf("User_ID", "U0001", "Note", "a, b", "Predicted_Target", int64(1)),
	}

	require.NoError(t, WriteCSV(path, []string{"User_ID", "Note", "Predicted_Target"}, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "User_ID,Note,Predicted_Target\nU0001,\"a, b\",1\n", string(data))
}
