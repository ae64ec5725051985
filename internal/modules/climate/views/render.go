package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var viewsFS embed.FS

var indexTmpl *template.Template

// loadTemplatesFromFS parses the page templates found in dir of fsys.
// Tests use it to simulate missing or broken templates.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	indexTmpl = tmpl
	return nil
}

// LoadTemplates parses the embedded templates. Call it once during startup;
// if it fails the server must not start.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

type Route struct {
	Path    string
	Example string
	Note    string
}

type IndexData struct {
	Title  string
	Routes []Route
}

// DefaultIndex lists the API routes, with an example for the date routes.
func DefaultIndex() *IndexData {
	return &IndexData{
		Title: "Welcome to the Climate App API!",
		Routes: []Route{
			{Path: "/api/v1.0/precipitation", Example: "/api/v1.0/precipitation"},
			{Path: "/api/v1.0/stations", Example: "/api/v1.0/stations"},
			{Path: "/api/v1.0/tobs", Example: "/api/v1.0/tobs"},
			{Path: "/api/v1.0/start_date", Example: "/api/v1.0/2017-01-01", Note: "e.g., /api/v1.0/2017-01-01"},
			{Path: "/api/v1.0/start_date/end_date", Example: "/api/v1.0/2017-01-01/2017-12-31", Note: "e.g., /api/v1.0/2017-01-01/2017-12-31"},
		},
	}
}

func RenderIndex(w io.Writer, data *IndexData) error {
	if indexTmpl == nil {
		return errors.New("index template not loaded: call views.LoadTemplates during startup")
	}
	return indexTmpl.ExecuteTemplate(w, "index.html", data)
}
