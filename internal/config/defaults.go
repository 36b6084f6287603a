package config

import "time"

var likert = []string{"1", "2", "3", "4", "5"}

// DefaultConfig returns the configuration matching the original study layout.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:          "data",
			Catalog:      "just_movies.json",
			Overviews:    "overviews.json",
			Perspectives: "movie2vec_perspectives.json",
			Reviews:      "review_text.json",
			Posters:      "poster_urls.json",
			EmbeddingDim: 100,
		},
		Selection: SelectionConfig{
			TopK:      6,
			GroupSize: 3,
			Limit:     9,
		},
		Session: SessionConfig{
			ScriptPath:  "experiments/experiment_results.txt",
			ResultsPath: "experiments/experiment_results.txt",
			StatePath:   "experiments/session_state.yaml",
		},
		Poster: PosterConfig{
			Width:     24,
			Timeout:   30 * time.Second,
			UserAgent: "moviestudy/" + Version,
		},
		Survey: SurveyConfig{
			SeenOptions: []string{"No", "Yes"},
			Questions: []Question{
				{Label: "How similar are the suggested movies?", Options: likert},
				{Label: "How diverse are the suggested movies?", Options: likert},
				{Label: "How helpful were the review excerpts?", Options: likert},
			},
		},
		Log: LogConfig{
			Level: "INFO",
			File:  "moviestudy.log",
		},
	}
}

// Version is reported by the version command and the poster user agent.
var Version = "0.1.0"
