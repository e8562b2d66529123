package viewer

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

func Render(w io.Writer, p Page) error {
	if err := pageTemplate.ExecuteTemplate(w, "page.html", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
