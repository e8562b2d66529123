// Package assets maps manifest document keys to the static files that back
// them and classifies each key as an image or a viewer-embedded document.
package assets

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	KindImage    = "image"
	KindDocument = "document"

	// viewerChrome hides the toolbar and navigation panes of the embedded
	// PDF viewer.
	viewerChrome = "#toolbar=0&navpanes=0"
)

// PathTable maps a document key to the URL path of its asset.
type PathTable map[string]string

var DefaultPathTable = PathTable{
	"Rahul_Mock_Grading.pdf":                     "/pdfs/pratham/Rahul_Mock_Grading.pdf",
	"Kishorshikshan_Language.pdf":                "/pdfs/pratham/Kishorshikshan Language-1.pdf",
	"Kishorshikshan_Math.pdf":                    "/pdfs/pratham/Kishorshikshan Math-1.pdf",
	"Vipul_Demo_Sheet.pdf":                       "/pdfs/pratham/Vipul_Demo sheet.pdf",
	"Jitendra_Assessment.pdf":                    "/pdfs/pratham/Jitendra_s tutor assesment grading format.pdf",
	"WhatsApp_Image_2024-08-22_at_10-41-58_jpeg": "/images/pratham/WhatsApp Image 2024-08-22 at 10.41.58.jpeg",
	"WhatsApp_Image_2024-08-22_at_10-42-02_jpeg": "/images/pratham/WhatsApp Image 2024-08-22 at 10.42.02.jpeg",
	"Image_jpeg":                                 "/images/pratham/Image.jpeg",
}

// ResolvePath returns "" for keys the table does not know.
func (t PathTable) ResolvePath(key string) string {
	return t[key]
}

func ResolvePath(key string) string {
	return DefaultPathTable.ResolvePath(key)
}

// IsImage trusts the key's naming convention entirely. A document key that
// happens to contain "jpeg" is classified as an image.
func IsImage(key string) bool {
	return strings.Contains(key, "WhatsApp_Image") || strings.Contains(key, "jpeg") || key == "Image_jpeg"
}

func Kind(key string) string {
	if IsImage(key) {
		return KindImage
	}
	return KindDocument
}

// DocumentURL is the embedded-viewer URL for a document asset path.
func DocumentURL(path string) string {
	return path + viewerChrome
}

// Merge returns a copy of t with every entry of override applied on top.
func (t PathTable) Merge(override PathTable) PathTable {
	out := make(PathTable, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

type pathsFile struct {
	Paths map[string]string `yaml:"paths"`
}

// LoadPathTable reads a YAML file of the form
//
//	paths:
//	  Some_Key.pdf: /pdfs/some/file.pdf
//
// and merges it over DefaultPathTable. An empty file name yields the default.
func LoadPathTable(file string) (PathTable, error) {
	if file == "" {
		return DefaultPathTable.Merge(nil), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read paths file: %w", err)
	}
	var pf pathsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("parse paths file: %w", err)
	}
	return DefaultPathTable.Merge(pf.Paths), nil
}
