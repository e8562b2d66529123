package assets

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Info struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size,omitempty"`
	Pages  int    `json:"pages,omitempty"`
}

// LocalPath maps an asset URL path onto the public root. Paths cannot escape
// the root.
func LocalPath(root, urlPath string) string {
	clean := path.Clean("/" + urlPath)
	return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

// Inspect stats the asset behind urlPath and, for PDFs, counts its pages.
// A missing file is reported through Info.Exists, not as an error.
func Inspect(root, urlPath string) (Info, error) {
	info := Info{Path: urlPath}
	if urlPath == "" {
		return info, nil
	}
	local := LocalPath(root, urlPath)
	st, err := os.Stat(local)
	if errors.Is(err, os.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("stat asset: %w", err)
	}
	info.Exists = true
	info.Size = st.Size()
	if strings.HasSuffix(strings.ToLower(local), ".pdf") {
		pages, err := CountPages(local)
		if err != nil {
			return info, err
		}
		info.Pages = pages
	}
	return info, nil
}

func CountPages(file string) (int, error) {
	f, r, err := pdf.Open(file)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}
