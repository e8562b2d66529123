package viewer

import (
	"html/template"
	"strconv"
	"strings"

	"tableview/internal/assets"
	"tableview/internal/models"

	"go.uber.org/zap"
)

const (
	selectPrompt     = "Select a document..."
	placeholderIcon  = "📋"
	placeholderText  = "Select a document to view extracted tables"
	loadingText      = "Loading Pratham data..."
	fallbackAltLabel = "Document"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Media is the single element shown in the left pane.
type Media struct {
	Image bool
	Src   string
	Label string
}

type TableBlock struct {
	ID      string
	Heading string
	HTML    template.HTML
}

type Page struct {
	State       string
	Loading     bool
	LoadingText string
	Options     []Option
	Media       *Media
	Filename    string
	CountLabel  string
	Tables      []TableBlock
	Placeholder bool
	Icon        string
	Prompt      string
	Notice      string
}

// Builder turns a session into the page view model.
type Builder struct {
	Paths  assets.PathTable
	Policy TablePolicy
	Logger *zap.Logger
}

func (b Builder) Build(s *Session) Page {
	p := Page{State: s.State().String()}
	if s.State() == StateLoading {
		p.Loading = true
		p.LoadingText = loadingText
		return p
	}

	p.Options = append(p.Options, Option{Value: "", Label: selectPrompt, Selected: s.State() != StateViewing})
	m := s.Manifest()
	for _, key := range m.Keys() {
		entry, _ := m.Get(key)
		p.Options = append(p.Options, Option{Value: key, Label: entry.Filename, Selected: key == s.Selected()})
	}

	entry, ok := s.Entry()
	if !ok {
		p.Placeholder = true
		p.Icon = placeholderIcon
		p.Prompt = placeholderText
		return p
	}

	key := s.Selected()
	label := entry.Filename
	if label == "" {
		label = fallbackAltLabel
	}
	path := b.paths().ResolvePath(key)
	if assets.IsImage(key) {
		p.Media = &Media{Image: true, Src: path, Label: label}
	} else {
		p.Media = &Media{Src: assets.DocumentURL(path), Label: label}
	}

	p.Filename = entry.Filename
	p.CountLabel = entry.TableCountLabel()
	p.Tables = make([]TableBlock, 0, len(entry.Tables))
	for i, t := range entry.Tables {
		p.Tables = append(p.Tables, TableBlock{
			ID:      t.ID,
			Heading: tableHeading(i, t),
			HTML:    b.tableHTML(key, t),
		})
	}
	return p
}

func (b Builder) paths() assets.PathTable {
	if b.Paths == nil {
		return assets.DefaultPathTable
	}
	return b.Paths
}

func (b Builder) tableHTML(key string, t models.TableEntry) template.HTML {
	if b.Policy != PolicySanitize {
		return template.HTML(t.HTML)
	}
	clean := Sanitize(t.HTML)
	if clean != strings.TrimSpace(t.HTML) && b.Logger != nil {
		b.Logger.Debug("sanitized table html", zap.String("document", key), zap.String("table", t.ID))
	}
	return template.HTML(clean)
}

func tableHeading(i int, t models.TableEntry) string {
	return "Table " + strconv.Itoa(i+1) + ": " + t.Title
}
