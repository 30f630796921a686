package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/tabclean/internal/dataset"
	"github.com/KaramelBytes/tabclean/internal/parser"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseFileCSV(t *testing.T) {
	p := writeFile(t, "people.csv", "name,age,active,\nAnn,30,true,x\nBob,,FALSE\n")
	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "active", "column_4"}, ds.Columns)
	require.Equal(t, 2, ds.RowCount())
	assert.Equal(t, dataset.String("Ann"), ds.Rows[0]["name"])
	assert.Equal(t, dataset.Number(30), ds.Rows[0]["age"])
	assert.Equal(t, dataset.Bool(true), ds.Rows[0]["active"])
	assert.True(t, ds.Rows[1]["age"].IsNull())
	assert.Equal(t, dataset.Bool(false), ds.Rows[1]["active"])
	assert.True(t, ds.Rows[1]["column_4"].IsNull())

	assert.Equal(t, "people.csv", ds.Meta.FileName)
	assert.NotEmpty(t, ds.Meta.Size)
	assert.False(t, ds.Meta.UploadedAt.IsZero())
}

func TestParseFileTSVAndDelimiterOverride(t *testing.T) {
	p := writeFile(t, "a.tsv", "a\tb\n1\t2\n")
	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, dataset.Number(2), ds.Rows[0]["b"])

	p = writeFile(t, "semi.csv", "a;b\n1;x\n")
	ds, err = parser.ParseFile(p, parser.Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, dataset.String("x"), ds.Rows[0]["b"])
}

func TestParseFileCSVDuplicateHeaders(t *testing.T) {
	p := writeFile(t, "dup.csv", "x,x,y\n1,2,3\n")
	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x_2", "y"}, ds.Columns)
	assert.Equal(t, dataset.Number(2), ds.Rows[0]["x_2"])
}

func TestParseFileEmptyCSV(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Empty(t, ds.Columns)
}

func TestParseFileJSONArrayAndWrapper(t *testing.T) {
	p := writeFile(t, "a.json", `[{"a":1,"b":"x"},{"a":null,"c":true,"d":{"k":1}}]`)
	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ds.Columns)
	assert.Equal(t, dataset.Number(1), ds.Rows[0]["a"])
	assert.True(t, ds.Rows[1]["a"].IsNull())
	assert.True(t, ds.Rows[1].Get("b").IsNull())
	assert.Equal(t, dataset.Bool(true), ds.Rows[1]["c"])
	assert.Equal(t, dataset.String(`{"k":1}`), ds.Rows[1]["d"])

	p = writeFile(t, "w.json", `{"data":[{"v":2.5}]}`)
	ds, err = parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, dataset.Number(2.5), ds.Rows[0]["v"])
}

func TestParseFileJSONInvalid(t *testing.T) {
	p := writeFile(t, "bad.json", `{"data": [1,2`)
	_, err := parser.ParseFile(p, parser.Options{})
	assert.Error(t, err)
}

func TestParseFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"city", "temp"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Oslo", 4.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Rome", 18}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"k"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"v"}))

	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))

	ds, err := parser.ParseFile(p, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "temp"}, ds.Columns)
	require.Equal(t, 2, ds.RowCount())
	assert.Equal(t, dataset.Number(4.5), ds.Rows[0]["temp"])
	assert.Equal(t, dataset.String("Rome"), ds.Rows[1]["city"])

	ds, err = parser.ParseFile(p, parser.Options{Sheet: "other"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, ds.Columns)

	_, err = parser.ParseFile(p, parser.Options{Sheet: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets")
}

func TestParseFileUnsupported(t *testing.T) {
	p := writeFile(t, "notes.txt", "hello")
	_, err := parser.ParseFile(p, parser.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrUnsupported))
	assert.False(t, parser.Supported("notes.txt"))
	assert.True(t, parser.Supported("DATA.CSV"))
}
