package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names
const (
	Welcome = "welcome"
)

// WelcomeData is the data available to the welcome templates.
type WelcomeData struct {
	Name        string
	Email       string
	Role        string
	CompanyName string
	LoginURL    string
}

// orDefault supports pipe usage: {{ .CompanyName | default "Learning Path" }}
func orDefault(fallback string, value any) any {
	switch v := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(v) == "" {
			return fallback
		}
	}
	return value
}

// title upper-cases the first letter of a role name ("student" -> "Student").
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var funcs = map[string]any{
	"default": orDefault,
	"title":   title,
}

// Parsed once; every file is embedded so a parse failure is a build defect.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(funcs).ParseFS(FS, "*.html.tmpl"))
)

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
// The subject is trimmed; HTML output is escaped by html/template.
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err = htmlSet.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}

func execText(file string, data any) (string, error) {
	var buf bytes.Buffer
	if err := textSet.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("render %s: %w", file, err)
	}
	return buf.String(), nil
}
