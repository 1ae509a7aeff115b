package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ParserConfig struct {
		RootURL     string     `yaml:"root_url" validate:"omitempty,url"`
		Markup      MarkupMode `yaml:"markup"`
		Concurrency int        `yaml:"concurrency" validate:"gte=0"`
		// FieldPath points to field descriptor (YAML or JSON), empty means
		// everything is allowed.
		FieldPath string `yaml:"field_path" sanitize:"assure_file_access"`
	}

	SqliteConfig struct {
		Path     string `yaml:"path" sanitize:"path_clean" validate:"required"`
		PoolSize int    `yaml:"pool_size" validate:"min=1,max=64"`
	}

	FilesConfig struct {
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	}

	DeliveryConfig struct {
		URL      string        `yaml:"url" validate:"omitempty,url"`
		Token    SecretString  `yaml:"token"`
		Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
		Language string        `yaml:"language"`
	}

	ResolverConfig struct {
		// Chain lists resolvers to query in order, first match wins.
		Chain    []ResolverKind `yaml:"chain"`
		Fixture  string         `yaml:"fixture" sanitize:"assure_file_access"`
		Sqlite   SqliteConfig   `yaml:"sqlite"`
		Files    FilesConfig    `yaml:"files"`
		Delivery DeliveryConfig `yaml:"delivery"`
	}

	DocumentConfig struct {
		Extensions            []string `yaml:"extensions" validate:"min=1,dive,startswith=."`
		OutputNameTemplate    string   `yaml:"output_name_template"`
		FileNameTransliterate bool     `yaml:"file_name_transliterate"`
		Pretty                bool     `yaml:"pretty"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Parser    ParserConfig   `yaml:"parser"`
		Resolver  ResolverConfig `yaml:"resolver"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"

	// unnamedFile replaces file names which are empty after cleaning.
	unnamedFile = "_unnamed_"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// Accepts reports whether file name has one of configured input extensions.
func (d *DocumentConfig) Accepts(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(d.Extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func hasXMLExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xhtml", ".xht", ".xml":
		return true
	}
	return false
}

// checkResolvers makes sure every resolver in the chain has what it needs.
func checkResolvers(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	r := cfg.Resolver
	for _, k := range r.Chain {
		switch k {
		case ResolverKindFixture:
			if r.Fixture == "" {
				sl.ReportError(r.Fixture, "resolver.fixture", "Fixture", "required_for_chain", k.String())
			}
		case ResolverKindFiles:
			if r.Files.Dir == "" {
				sl.ReportError(r.Files.Dir, "resolver.files.dir", "Dir", "required_for_chain", k.String())
			}
		case ResolverKindDelivery:
			if r.Delivery.URL == "" {
				sl.ReportError(r.Delivery.URL, "resolver.delivery.url", "URL", "required_for_chain", k.String())
			}
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are accepted, so no yaml.Unmarshal here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkResolvers)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump returns actual configuration as YAML with secrets masked.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
