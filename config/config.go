// Package config loads the YAML configuration of svorel.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/svorel/conll"
	"github.com/revelaction/svorel/extract"
	"github.com/revelaction/svorel/parser"
	"github.com/revelaction/svorel/sentence"
	"github.com/revelaction/svorel/span"
)

// Span strategies.
const (
	StrategyTree = "tree"
	StrategyPOS  = "pos"
)

type Span struct {
	// Strategy is "tree" (modifier closure) or "pos" (nominal tag scan).
	Strategy string `yaml:"strategy"`

	// AnchorMax anchors tree phrases at the highest modifier index.
	AnchorMax bool `yaml:"anchor_max"`
}

type Input struct {
	UseLemma     bool `yaml:"use_lemma"`
	Enhanced     bool `yaml:"enhanced"`
	UniversalPos bool `yaml:"universal_pos"`
	Normalize    bool `yaml:"normalize"`
}

// Parser is the external command run on raw text documents.
type Parser struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type Output struct {
	Dir string `yaml:"dir"`

	// TupleDB is an optional SQLite file receiving every tuple.
	TupleDB string `yaml:"tuple_db"`

	// MetricsFile is an optional Prometheus textfile written after a run.
	MetricsFile string `yaml:"metrics_file"`
}

type Log struct {
	Level string `yaml:"level"`

	// File, when set, receives the logs with size based rotation.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	// Scheme names a built-in label scheme.
	Scheme string `yaml:"scheme"`

	// Labels replaces the built-in scheme when set.
	Labels *extract.Scheme `yaml:"labels"`

	MergePassiveSubjects bool `yaml:"merge_passive_subjects"`

	// Separator joins the words of a phrase. It may not contain white space:
	// the output streams separate tuples with a space.
	Separator string `yaml:"separator"`

	Span    Span   `yaml:"span"`
	Input   Input  `yaml:"input"`
	Parser  Parser `yaml:"parser"`
	Output  Output `yaml:"output"`
	Workers int    `yaml:"workers"`
	Log     Log    `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Scheme:  "universal-chinese",
		Span:    Span{Strategy: StrategyTree},
		Output:  Output{Dir: "out"},
		Input:   Input{Enhanced: true},
		Workers: runtime.NumCPU(),
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// Parse decodes b over the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the configuration file at path. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

func (c Config) Validate() error {
	var errs []error

	if _, err := c.ExtractScheme(); err != nil {
		errs = append(errs, err)
	}

	switch c.Span.Strategy {
	case StrategyTree, StrategyPOS:
	default:
		errs = append(errs, fmt.Errorf("unknown span strategy %q", c.Span.Strategy))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}

	if c.Output.Dir == "" {
		errs = append(errs, errors.New("output dir is empty"))
	}

	if strings.IndexFunc(c.Separator, unicode.IsSpace) >= 0 {
		errs = append(errs, fmt.Errorf("separator %q contains white space", c.Separator))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ExtractScheme returns the label scheme in effect.
func (c Config) ExtractScheme() (extract.Scheme, error) {
	var s extract.Scheme
	if c.Labels != nil {
		s = *c.Labels
	} else {
		var err error
		s, err = extract.SchemeByName(c.Scheme)
		if err != nil {
			return s, err
		}
	}

	if c.MergePassiveSubjects {
		s.MergePassiveSubjects = true
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Extractor returns the span strategy in effect for scheme s.
func (c Config) Extractor(s extract.Scheme) span.Extractor {
	if c.Span.Strategy == StrategyPOS {
		return span.POSScan{Nominal: s.Nominal}
	}
	return span.TreeClosure{AnchorMax: c.Span.AnchorMax}
}

// Builder returns the relation builder described by the configuration.
func (c Config) Builder(logger *slog.Logger) (*extract.Builder, error) {
	s, err := c.ExtractScheme()
	if err != nil {
		return nil, err
	}

	opts := []extract.Option{extract.WithSeparator(c.Separator)}
	if logger != nil {
		opts = append(opts, extract.WithLogger(logger))
	}
	return extract.NewBuilder(s, c.Extractor(s), opts...), nil
}

// Loader returns the input adapter. Raw text needs a parser command.
func (c Config) Loader() *parser.Loader {
	l := &parser.Loader{
		Normalize: c.Input.Normalize,
		Conll:     conll.Options{UseLemma: c.Input.UseLemma, Enhanced: c.Input.Enhanced},
		Sentence:  sentence.Options{UseLemma: c.Input.UseLemma, UniversalPos: c.Input.UniversalPos},
	}

	if c.Parser.Command != "" {
		l.Parser = &parser.Command{
			Path:    c.Parser.Command,
			Args:    c.Parser.Args,
			Options: l.Conll,
		}
	}
	return l
}

// LogLevel parses the configured level.
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return l, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return l, nil
}
