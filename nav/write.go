package nav

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	yaml "gopkg.in/yaml.v3"

	"navgen/common"
	"navgen/misc"
)

//go:embed meta.ts.tmpl
var metaTmpl string

var tsTemplate = template.Must(template.New("meta.ts").Funcs(tsFuncs()).Parse(metaTmpl))

func tsFuncs() template.FuncMap {
	funcMap := sprig.FuncMap()
	// JSON string literal is a valid JS string literal
	funcMap["jsString"] = func(s string) (string, error) {
		data, err := json.Marshal(s)
		return string(data), err
	}
	return funcMap
}

// Write outputs labels in requested format. Source is mentioned in generated
// file header where format allows comments, may be empty.
func Write(w io.Writer, labels *Labels, format common.OutputFmt, source string) error {
	switch format {
	case common.OutputFmtTs:
		return writeTS(w, labels, source)
	case common.OutputFmtJson:
		return writeJSON(w, labels)
	case common.OutputFmtYaml:
		return writeYAML(w, labels)
	default:
		return fmt.Errorf("unsupported navigation output format %s", format)
	}
}

func writeTS(w io.Writer, labels *Labels, source string) error {
	values := struct {
		App     string
		Source  string
		Entries []Entry
	}{
		App:     misc.GetAppName(),
		Source:  source,
		Entries: labels.Entries(),
	}
	if err := tsTemplate.Execute(w, values); err != nil {
		return fmt.Errorf("unable to write navigation module: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, labels *Labels) error {
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal navigation to json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("unable to write navigation: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, labels *Labels) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(labels); err != nil {
		return fmt.Errorf("unable to marshal navigation to yaml: %w", err)
	}
	return enc.Close()
}
