package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/samvad-hq/samvad-media-wall/internal/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

// PresetLink is a quick-pick feed shown above the controls.
type PresetLink struct {
	ID   string
	Name string
}

// FormState is what the control form shows back to the user. The secret is
// never echoed; HasSecret only says whether one is configured.
type FormState struct {
	ClientID   string
	HasSecret  bool
	Feed       string
	Sort       domain.Sort
	TimeWindow domain.TimeWindow
	Limit      int
	Layout     domain.Layout
	Columns    int
	ThumbSize  int
}

// FormFromView converts a view state to form values.
func FormFromView(v domain.ViewState) FormState {
	return FormState{
		ClientID:   v.Credentials().ID,
		HasSecret:  v.Credentials().Secret != "",
		Feed:       v.Feed(),
		Sort:       v.Sort(),
		TimeWindow: v.SelectedWindow(),
		Limit:      v.Limit(),
		Layout:     v.Layout(),
		Columns:    v.Columns(),
		ThumbSize:  v.ThumbSize(),
	}
}

// PageData is the full input of the HTML document.
type PageData struct {
	Title   string
	Page    *Page
	Status  domain.Status
	Form    FormState
	Presets []PresetLink

	// Interactive enables the controls and the failure reporting script.
	Interactive bool
}

type templateData struct {
	PageData
	Sorts       []domain.Sort
	TimeWindows []domain.TimeWindow
	Layouts     []domain.Layout
	ShowWindows bool
}

// Render writes the HTML document for data to w.
func Render(w io.Writer, data PageData) error {
	if data.Page == nil {
		data.Page = &Page{
			Layout:    data.Form.Layout,
			Columns:   data.Form.Columns,
			ThumbSize: data.Form.ThumbSize,
		}
	}
	if data.Page.Layout == "" {
		p := *data.Page
		p.Layout = domain.LayoutGrid
		data.Page = &p
	}
	if data.Title == "" {
		data.Title = "Media Wall"
	}

	td := templateData{
		PageData:    data,
		Sorts:       domain.Sorts,
		TimeWindows: domain.TimeWindows,
		Layouts:     domain.Layouts,
		ShowWindows: data.Form.Sort == domain.SortTop,
	}
	if err := pageTemplate.Execute(w, td); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
