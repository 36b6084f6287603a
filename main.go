package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"moviestudy/internal/config"
	"moviestudy/internal/dataset"
	"moviestudy/internal/logging"
	"moviestudy/internal/poster"
	"moviestudy/internal/session"
	"moviestudy/internal/similarity"
	"moviestudy/internal/ui"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "moviestudy",
		Short: "Run one trial of the movie perspectives study",
		Long: `moviestudy shows a participant a movie, the review perspectives it was
embedded from and nine movies chosen by perspective similarity, then records
their answers in the results log.`,
		SilenceUsage: true,
		RunE:         runStudy,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./moviestudy.yaml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "moviestudy version %s\n", config.Version)
		},
	})
	rootCmd.AddCommand(newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what every command needs once configuration is loaded.
type env struct {
	cfg      *config.Config
	data     *dataset.Dataset
	selector *similarity.Selector
	closeLog func() error
}

func setup() (*env, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	closer, err := logging.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	data, err := dataset.Load(cfg.Data)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return &env{
		cfg:      cfg,
		data:     data,
		selector: similarity.NewSelector(data, selectionOptions(cfg.Selection)),
		closeLog: closer.Close,
	}, nil
}

func selectionOptions(c config.SelectionConfig) similarity.Options {
	return similarity.Options{TopK: c.TopK, GroupSize: c.GroupSize, Limit: c.Limit}
}

func runStudy(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.closeLog()

	ctrl := session.NewController(e.cfg.Session, session.NewPicker(nil))
	trial, err := ctrl.Begin(e.data.Catalog())
	if err != nil {
		return err
	}

	study, err := buildStudy(e.data, e.selector, trial.Movie, e.cfg.Selection.Limit)
	if err != nil {
		log.Error().Err(err).Str("movie", trial.Movie).Msg("failed to prepare trial")
		return err
	}
	if err := ctrl.MarkShown(trial); err != nil {
		return err
	}

	resp, submitted, err := ui.Run(cmd.Context(), study, ui.Options{
		Survey:      e.cfg.Survey,
		PosterWidth: e.cfg.Poster.Width,
		Fetcher:     poster.NewFetcher(e.cfg.Poster.Timeout, e.cfg.Poster.UserAgent),
	})
	if err != nil {
		if aerr := ctrl.Abandon(trial); aerr != nil {
			log.Error().Err(aerr).Msg("failed to withdraw trial marker")
		}
		return fmt.Errorf("dialog failed: %w", err)
	}
	if !submitted {
		return ctrl.Abandon(trial)
	}

	state, err := ctrl.Complete(trial, resp)
	if err != nil {
		return fmt.Errorf("failed to record answers: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Thank you! %d trial(s) recorded in this session.\n", state.Completed)
	return nil
}
