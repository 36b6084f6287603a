package config

import (
	"path/filepath"
	"time"
)

// Config is the full runtime configuration of a study session.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Selection SelectionConfig `mapstructure:"selection"`
	Session   SessionConfig   `mapstructure:"session"`
	Poster    PosterConfig    `mapstructure:"poster"`
	Survey    SurveyConfig    `mapstructure:"survey"`
	Log       LogConfig       `mapstructure:"log"`
}

// DataConfig locates the read-only snapshot files.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	Catalog      string `mapstructure:"catalog"`
	Overviews    string `mapstructure:"overviews"`
	Perspectives string `mapstructure:"perspectives"`
	Reviews      string `mapstructure:"reviews"`
	Posters      string `mapstructure:"posters"`
	EmbeddingDim int    `mapstructure:"embedding_dim"`
}

// Path resolves a snapshot file name against the data directory.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// SelectionConfig parameterizes the similarity selector.
type SelectionConfig struct {
	TopK      int `mapstructure:"top_k"`
	GroupSize int `mapstructure:"group_size"`
	Limit     int `mapstructure:"limit"`
}

type SessionConfig struct {
	ScriptPath  string `mapstructure:"script_path"`
	ResultsPath string `mapstructure:"results_path"`
	StatePath   string `mapstructure:"state_path"`
}

type PosterConfig struct {
	Width     int           `mapstructure:"width"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// SurveyConfig holds the questionnaire shown under the display grid.
type SurveyConfig struct {
	SeenOptions []string   `mapstructure:"seen_options"`
	Questions   []Question `mapstructure:"questions"`
}

type Question struct {
	Label   string   `mapstructure:"label"`
	Options []string `mapstructure:"options"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

const (
	// QuestionCount is the number of categorical questions a results record holds.
	QuestionCount = 3
	// MaxSlots is the number of display slots in the dialog and of relevance
	// flags in a results record.
	MaxSlots = 9
)
