package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"navgen/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	OutputConfig struct {
		Format      common.OutputFmt `yaml:"format" validate:"oneof=0 1 2"`
		Destination string           `yaml:"destination"`
		Overwrite   bool             `yaml:"overwrite"`
	}

	NavigationConfig struct {
		Source             string       `yaml:"source"`
		Level              string       `yaml:"level" validate:"required"`
		LabelTemplate      string       `yaml:"label_template" validate:"required"`
		TransliterateSlugs bool         `yaml:"transliterate_slugs"`
		Output             OutputConfig `yaml:"output"`
	}

	Config struct {
		Version    int              `yaml:"version" validate:"eq=1"`
		Navigation NavigationConfig `yaml:"navigation"`
		Logging    LoggingConfig    `yaml:"logging"`
		Reporting  ReporterConfig   `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, label template is expanded
	// per module later and must survive configuration processing intact
	LabelTemplateFieldName TemplateFieldName = "label_template"
)

var requiredOptions = []func(*gencfg.ProcessingOptions){
	gencfg.WithDoNotExpandField(string(LabelTemplateFieldName)),
}

// decodeConfig layers data over cfg. Unknown keys are rejected so a typo in
// navgen.yaml does not silently fall back to the default value.
func decodeConfig(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

// checkConfig cleans up paths (creating directories for log and report) and
// validates the final configuration.
func checkConfig(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration returns navgen configuration: embedded defaults with the
// file at path, if given, layered on top. Only the merged result is checked,
// so a file may leave any section out.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := Prepare(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	cfg := &Config{}
	if err := decodeConfig(defaults, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file %s: %w", path, err)
		}
	}
	if err := checkConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare expands embedded configuration template, label template is left
// as is. Result is what "dumpconfig --default" prints.
func Prepare(options ...func(*gencfg.ProcessingOptions)) ([]byte, error) {
	return gencfg.Process(ConfigTmpl, slices.Concat(requiredOptions, options)...)
}

// Dump serializes effective configuration, it goes to "dumpconfig" output and
// into debug report.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
