package texmd

import (
	"path/filepath"
	"strconv"

	"github.com/hesusruiz/vcutils/yaml"
)

// ConfigFileName is the name of the configuration file searched next to the input
const ConfigFileName = "texmd.yaml"

const defaultMaxSteps = 1000000

// Config holds the options of a conversion.
// Most of them come from the "texmd" section of a YAML file.
type Config struct {
	// Bullet is the marker of the items of unordered lists
	Bullet string

	// Depth is how many section levels get their own output file
	Depth int

	// Suffix is the extension of the output files
	Suffix string

	// MaxSteps bounds the number of recognizer invocations of a conversion
	MaxSteps int

	// HighlightCode formats the code blocks as HTML, with the chroma style in CodeStyle
	HighlightCode bool
	CodeStyle     string

	Project string
	Author  string
	Release string
	Sphinx  bool

	y *yaml.YAML
}

// DefaultConfig returns the configuration used when no file is provided
func DefaultConfig() *Config {
	y, _ := yaml.ParseYaml("")
	return NewConfig(y)
}

// NewConfig builds a configuration from parsed YAML data, applying defaults for missing values
func NewConfig(y *yaml.YAML) *Config {
	c := &Config{
		Bullet:  y.String("texmd.bullet", "*"),
		Suffix:  y.String("texmd.suffix", ".md"),
		Project: y.String("texmd.project", "Project"),
		Author:  y.String("texmd.author", "Author"),
		Release: y.String("texmd.release", "0.1"),
		Sphinx:  y.Bool("texmd.sphinx"),

		HighlightCode: y.Bool("texmd.highlightCode"),
		CodeStyle:     y.String("texmd.codeStyle", "github"),

		Depth:    atoiDefault(y.String("texmd.depth", ""), 3),
		MaxSteps: atoiDefault(y.String("texmd.maxSteps", ""), defaultMaxSteps),
		y:        y,
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = defaultMaxSteps
	}
	return c
}

// ParseConfig reads the configuration from a YAML string
func ParseConfig(src string) (*Config, error) {
	y, err := yaml.ParseYaml(src)
	if err != nil {
		return nil, err
	}
	return NewConfig(y), nil
}

// LoadConfig reads the configuration from a YAML file
func LoadConfig(fileName string) (*Config, error) {
	y, err := yaml.ParseYamlFile(fileName)
	if err != nil {
		return nil, err
	}
	return NewConfig(y), nil
}

// FindConfig returns the configuration in fileName if not empty. Otherwise it tries
// with a file in the same directory as the input file, and then in the current directory.
// When nothing is found it returns the default configuration.
func FindConfig(fileName string, inputFile string) (*Config, error) {
	if len(fileName) > 0 {
		return LoadConfig(fileName)
	}

	dir, _ := filepath.Split(inputFile)
	if c, err := LoadConfig(filepath.Join(dir, ConfigFileName)); err == nil {
		return c, nil
	}
	if c, err := LoadConfig(ConfigFileName); err == nil {
		return c, nil
	}

	return DefaultConfig(), nil
}

// TheoremDirective returns the MyST directive for a theorem-like environment.
// An entry for the environment in "texmd.theorems" takes precedence over the builtin table.
func (c *Config) TheoremDirective(env string, display string) string {
	if d := c.y.String("texmd.theorems."+env, ""); len(d) > 0 {
		return d
	}
	return theoremDirective(env, display)
}

// ReferenceTemplate returns the template used to render references to labels of kind k.
// The placeholders {id} and {number} are replaced by the values of the label.
func (c *Config) ReferenceTemplate(k LabelKind) string {
	return c.y.String("texmd.references."+k.String(), referenceTemplates[k])
}

func atoiDefault(s string, def int) int {
	if len(s) == 0 {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
