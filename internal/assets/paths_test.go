package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsImageOverDefaultTable(t *testing.T) {
	images := map[string]bool{
		"WhatsApp_Image_2024-08-22_at_10-41-58_jpeg": true,
		"WhatsApp_Image_2024-08-22_at_10-42-02_jpeg": true,
		"Image_jpeg": true,
	}
	for key := range DefaultPathTable {
		require.Equal(t, images[key], IsImage(key), key)
	}
}

func TestIsImageHeuristic(t *testing.T) {
	cases := map[string]bool{
		"WhatsApp_Image_only":   true,
		"scan.jpeg":             true,
		"Image_jpeg":            true,
		"report_jpeg_notes.pdf": true,
		"Report.pdf":            false,
		"photo.JPG":             false,
		"":                      false,
	}
	for key, want := range cases {
		if got := IsImage(key); got != want {
			t.Fatalf("IsImage(%q): got %v want %v", key, got, want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	require.Equal(t, "/images/pratham/Image.jpeg", ResolvePath("Image_jpeg"))
	require.Equal(t, "/pdfs/pratham/Vipul_Demo sheet.pdf", ResolvePath("Vipul_Demo_Sheet.pdf"))
	require.Equal(t, "", ResolvePath("doc1"))
}

func TestDocumentURLSuppressesChrome(t *testing.T) {
	require.Equal(t, "/pdfs/a.pdf#toolbar=0&navpanes=0", DocumentURL("/pdfs/a.pdf"))
}

func TestLoadPathTableMergesOverride(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paths.yaml")
	require.NoError(t, os.WriteFile(file, []byte("paths:\n  doc1: /pdfs/extra/doc1.pdf\n  Image_jpeg: /images/other.jpeg\n"), 0o644))

	table, err := LoadPathTable(file)
	require.NoError(t, err)
	require.Equal(t, "/pdfs/extra/doc1.pdf", table.ResolvePath("doc1"))
	require.Equal(t, "/images/other.jpeg", table.ResolvePath("Image_jpeg"))
	require.Equal(t, "/pdfs/pratham/Rahul_Mock_Grading.pdf", table.ResolvePath("Rahul_Mock_Grading.pdf"))
	require.Equal(t, "/images/pratham/Image.jpeg", DefaultPathTable["Image_jpeg"])
}

func TestLoadPathTableDefaultsAndErrors(t *testing.T) {
	table, err := LoadPathTable("")
	require.NoError(t, err)
	require.Len(t, table, len(DefaultPathTable))

	_, err = LoadPathTable(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
