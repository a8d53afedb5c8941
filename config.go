package csvpretty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LineStyle selects the glyph set used for borders.
type LineStyle int

const (
	// LineStyleASCII draws borders with '+', '-' and '|'.
	LineStyleASCII LineStyle = iota
	// LineStyleUnicode draws borders with box-drawing characters.
	LineStyleUnicode
)

// String returns the configuration name of s.
func (s LineStyle) String() string {
	switch s {
	case LineStyleASCII:
		return "ascii"
	case LineStyleUnicode:
		return "unicode"
	default:
		return "unknown"
	}
}

// ParseLineStyle maps "ascii" or "unicode" to a LineStyle.
func ParseLineStyle(name string) (LineStyle, error) {
	switch strings.ToLower(name) {
	case "ascii":
		return LineStyleASCII, nil
	case "unicode":
		return LineStyleUnicode, nil
	}
	return LineStyleASCII, fmt.Errorf("csvpretty: unknown line style %q", name)
}

// HeaderMode controls whether the first row is rendered as a header.
type HeaderMode int

const (
	// HeaderAuto applies the header detection heuristic.
	HeaderAuto HeaderMode = iota
	// HeaderAlways treats the first row as a header.
	HeaderAlways
	// HeaderNever renders the first row as data.
	HeaderNever
)

// String returns the configuration name of m.
func (m HeaderMode) String() string {
	switch m {
	case HeaderAuto:
		return "auto"
	case HeaderAlways:
		return "always"
	case HeaderNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseHeaderMode maps "auto", "always" or "never" to a HeaderMode.
func ParseHeaderMode(name string) (HeaderMode, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return HeaderAuto, nil
	case "always":
		return HeaderAlways, nil
	case "never":
		return HeaderNever, nil
	}
	return HeaderAuto, fmt.Errorf("csvpretty: unknown header mode %q", name)
}

// Config collects the tokenizer and renderer settings.
type Config struct {
	// Separator is the field delimiter, 0 for auto-detection.
	Separator byte
	// Border is 0 (none), 1 (outer edge only) or 2 (full box).
	Border    int
	LineStyle LineStyle
	Header    HeaderMode
	// MaxFields is the sanity limit on fields per row.
	MaxFields int
	// BucketSize is the row capacity of one storage bucket.
	BucketSize int
	// EastAsianWidth counts ambiguous-width characters as two columns.
	EastAsianWidth bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Border:     2,
		LineStyle:  LineStyleASCII,
		Header:     HeaderAuto,
		MaxFields:  DefaultMaxFields,
		BucketSize: DefaultBucketSize,
	}
}

// Validate reports the first invalid setting of c.
func (c Config) Validate() error {
	switch c.Separator {
	case 0, ',', ';', '|', '\t':
	default:
		return fmt.Errorf("csvpretty: unsupported separator %q", c.Separator)
	}
	if c.Border < 0 || c.Border > 2 {
		return fmt.Errorf("csvpretty: border must be 0, 1 or 2, got %d", c.Border)
	}
	if c.LineStyle != LineStyleASCII && c.LineStyle != LineStyleUnicode {
		return fmt.Errorf("csvpretty: unknown line style %d", c.LineStyle)
	}
	if c.Header < HeaderAuto || c.Header > HeaderNever {
		return fmt.Errorf("csvpretty: unknown header mode %d", c.Header)
	}
	if c.MaxFields <= 0 {
		return errors.New("csvpretty: max fields must be positive")
	}
	if c.BucketSize <= 0 {
		return errors.New("csvpretty: bucket size must be positive")
	}
	return nil
}

// NewTokenizer returns a Tokenizer for r configured from c.
func (c Config) NewTokenizer(r io.Reader) *Tokenizer {
	t := NewTokenizer(r)
	t.Separator = c.Separator
	t.MaxFields = c.MaxFields
	t.Measure = c.Measure()
	t.Store = NewStore(c.BucketSize)
	return t
}

// Measure returns the width Measure selected by c.
func (c Config) Measure() *Measure {
	if c.EastAsianWidth {
		return NewMeasure(true)
	}
	return defaultMeasure
}

// fileConfig is the on-disk form of Config.
type fileConfig struct {
	Separator  *string `toml:"separator" yaml:"separator"`
	Border     *int    `toml:"border" yaml:"border"`
	LineStyle  *string `toml:"linestyle" yaml:"linestyle"`
	Header     *string `toml:"header" yaml:"header"`
	MaxFields  *int    `toml:"max_fields" yaml:"max_fields"`
	BucketSize *int    `toml:"bucket_size" yaml:"bucket_size"`
	EastAsian  *bool   `toml:"east_asian_width" yaml:"east_asian_width"`
}

// LoadConfig reads a TOML or YAML file, chosen by extension, and applies the
// keys it sets on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("csvpretty: read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(content, &fc); err != nil {
			return cfg, fmt.Errorf("csvpretty: parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &fc); err != nil {
			return cfg, fmt.Errorf("csvpretty: parse YAML config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("csvpretty: unsupported config format %q", ext)
	}

	if err := fc.apply(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Separator != nil {
		sep, err := ParseSeparator(*fc.Separator)
		if err != nil {
			return err
		}
		cfg.Separator = sep
	}
	if fc.Border != nil {
		cfg.Border = *fc.Border
	}
	if fc.LineStyle != nil {
		style, err := ParseLineStyle(*fc.LineStyle)
		if err != nil {
			return err
		}
		cfg.LineStyle = style
	}
	if fc.Header != nil {
		mode, err := ParseHeaderMode(*fc.Header)
		if err != nil {
			return err
		}
		cfg.Header = mode
	}
	if fc.MaxFields != nil {
		cfg.MaxFields = *fc.MaxFields
	}
	if fc.BucketSize != nil {
		cfg.BucketSize = *fc.BucketSize
	}
	if fc.EastAsian != nil {
		cfg.EastAsianWidth = *fc.EastAsian
	}
	return nil
}

// ParseSeparator maps a separator setting to its byte. "", "auto" select
// auto-detection; "tab" and "\t" select a tab.
func ParseSeparator(s string) (byte, error) {
	switch s {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case ",", ";", "|":
		return s[0], nil
	}
	return 0, fmt.Errorf("csvpretty: unsupported separator %q", s)
}
