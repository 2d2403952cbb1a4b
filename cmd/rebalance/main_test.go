package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Rateio-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Rateio-api/pkg/config"
	"github.com/jhoicas/Rateio-api/pkg/logger"
)

// ──────────────────────────────────────────────
// Escritura de archivos
// ──────────────────────────────────────────────

func TestWriteJSON_Archivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultado.json")

	require.NoError(t, writeJSON(path, map[string]int{"transfers": 2}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"transfers":2}`, string(raw))
}

func TestWriteFile_PropagaErrorDeEscritura(t *testing.T) {
	boom := errors.New("disco lleno")
	err := writeFile(filepath.Join(t.TempDir(), "x.json"), func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWriteFile_DirectorioInexistente(t *testing.T) {
	err := writeFile(filepath.Join(t.TempDir(), "no", "existe.json"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}

// ──────────────────────────────────────────────
// template
// ──────────────────────────────────────────────

func TestTemplateCmd_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelo.xlsx")
	require.NoError(t, templateCmd([]string{"-out", path}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(tabular.BaseSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tabular.TemplateHeaders, rows[0])
}

func TestTemplateCmd_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modelo.csv")
	require.NoError(t, templateCmd([]string{"-out", path}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(raw, []byte("PK")))
	assert.Contains(t, string(raw), tabular.TemplateHeaders[0])
}

// ──────────────────────────────────────────────
// Fuentes
// ──────────────────────────────────────────────

func TestOpenSnapshots_SinFuente(t *testing.T) {
	repo, closeFn, err := openSnapshots(context.Background(), &config.Config{}, logger.Nop())
	assert.Error(t, err)
	assert.Nil(t, repo)
	assert.Nil(t, closeFn)
}

func TestReadBaseFile_SinRuta(t *testing.T) {
	_, err := readBaseFile("")
	assert.Error(t, err)
}
