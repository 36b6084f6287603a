package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "MOVIESTUDY"
	defaultConfigFile = "moviestudy.yaml"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads configuration from path (YAML) and MOVIESTUDY_* environment
// variables on top of DefaultConfig. An empty path looks for moviestudy.yaml in
// the working directory and is optional; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := readFile(v, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := v.ReadConfig(f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("data.dir", d.Data.Dir)
	v.SetDefault("data.catalog", d.Data.Catalog)
	v.SetDefault("data.overviews", d.Data.Overviews)
	v.SetDefault("data.perspectives", d.Data.Perspectives)
	v.SetDefault("data.reviews", d.Data.Reviews)
	v.SetDefault("data.posters", d.Data.Posters)
	v.SetDefault("data.embedding_dim", d.Data.EmbeddingDim)

	v.SetDefault("selection.top_k", d.Selection.TopK)
	v.SetDefault("selection.group_size", d.Selection.GroupSize)
	v.SetDefault("selection.limit", d.Selection.Limit)

	v.SetDefault("session.script_path", d.Session.ScriptPath)
	v.SetDefault("session.results_path", d.Session.ResultsPath)
	v.SetDefault("session.state_path", d.Session.StatePath)

	v.SetDefault("poster.width", d.Poster.Width)
	v.SetDefault("poster.timeout", d.Poster.Timeout)
	v.SetDefault("poster.user_agent", d.Poster.UserAgent)

	v.SetDefault("survey.seen_options", d.Survey.SeenOptions)
	questions := make([]map[string]any, 0, len(d.Survey.Questions))
	for _, q := range d.Survey.Questions {
		questions = append(questions, map[string]any{"label": q.Label, "options": q.Options})
	}
	v.SetDefault("survey.questions", questions)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// Validate checks the parameters the selector and the results log depend on.
func (c *Config) Validate() error {
	switch {
	case c.Data.EmbeddingDim <= 0:
		return fmt.Errorf("%w: data.embedding_dim must be positive", ErrInvalidConfig)
	case c.Selection.TopK <= 0:
		return fmt.Errorf("%w: selection.top_k must be positive", ErrInvalidConfig)
	case c.Selection.GroupSize <= 0:
		return fmt.Errorf("%w: selection.group_size must be positive", ErrInvalidConfig)
	case c.Selection.Limit <= 0 || c.Selection.Limit > MaxSlots:
		return fmt.Errorf("%w: selection.limit must be between 1 and %d", ErrInvalidConfig, MaxSlots)
	case c.Selection.GroupSize > c.Selection.Limit:
		return fmt.Errorf("%w: selection.group_size exceeds selection.limit", ErrInvalidConfig)
	case c.Session.ScriptPath == "" || c.Session.ResultsPath == "":
		return fmt.Errorf("%w: session.script_path and session.results_path are required", ErrInvalidConfig)
	case c.Poster.Width <= 0:
		return fmt.Errorf("%w: poster.width must be positive", ErrInvalidConfig)
	case len(c.Survey.SeenOptions) == 0:
		return fmt.Errorf("%w: survey.seen_options is empty", ErrInvalidConfig)
	case len(c.Survey.Questions) != QuestionCount:
		return fmt.Errorf("%w: survey.questions must hold exactly %d questions", ErrInvalidConfig, QuestionCount)
	}
	for i, q := range c.Survey.Questions {
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: survey.questions[%d] has no options", ErrInvalidConfig, i)
		}
	}
	return nil
}
