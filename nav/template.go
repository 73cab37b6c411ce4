package nav

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// TemplateLabeler returns Labeler expanding text as text/template with
// slim-sprig functions over LabelValues, for example:
//
//	{{ .ID }}. {{ .Title | title }}
func TemplateLabeler(name, text string) (Labeler, error) {
	tmpl, err := template.New(name).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("unable to parse label template %s: %w", name, err)
	}
	return func(v LabelValues) (string, error) {
		buf := new(bytes.Buffer)
		if err := tmpl.Execute(buf, v); err != nil {
			return "", err
		}
		return buf.String(), nil
	}, nil
}
