package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"moviestudy/internal/config"
)

// Trial is the movie chosen for this invocation and the state it was chosen
// from.
type Trial struct {
	Movie    string
	Mode     Mode
	Position int
	State    State
}

// Controller resolves the current trial and persists its outcome.
type Controller struct {
	cfg     config.SessionConfig
	picker  *Picker
	results *ResultsLog
}

func NewController(cfg config.SessionConfig, picker *Picker) *Controller {
	return &Controller{
		cfg:     cfg,
		picker:  picker,
		results: NewResultsLog(cfg.ResultsPath),
	}
}

// Begin picks the movie for this session. Progress comes from the state file
// when present, otherwise from the number of completed records.
func (c *Controller) Begin(catalog []string) (Trial, error) {
	script, err := ReadScript(c.cfg.ScriptPath)
	if err != nil {
		return Trial{}, err
	}

	state, found, err := c.loadState()
	if err != nil {
		return Trial{}, err
	}
	if found && state.Current != "" {
		log.Warn().
			Str("session", state.SessionID).
			Str("movie", state.Current).
			Msg("previous trial was interrupted before it was recorded")
	}
	if !found {
		completed, err := c.countCompleted(script)
		if err != nil {
			return Trial{}, err
		}
		state = NewState(completed)
		log.Info().Int("completed", completed).Msg("no session state, resuming from results log")
	}

	movie, pos, err := c.picker.Pick(script, state.Completed, catalog)
	if err != nil {
		return Trial{}, err
	}
	state.Current = movie
	log.Info().
		Str("session", state.SessionID).
		Str("mode", script.Mode.String()).
		Int("position", pos).
		Str("movie", movie).
		Msg("trial started")

	return Trial{Movie: movie, Mode: script.Mode, Position: pos, State: state}, nil
}

// MarkShown opens the trial's record in the results log and saves the state
// with the movie as current, so an interrupted trial stays visible. The
// record is finished by Complete.
func (c *Controller) MarkShown(t Trial) error {
	if err := c.results.MarkShown(t.Movie); err != nil {
		return err
	}
	state := t.State
	state.Current = t.Movie
	return c.saveState(&state)
}

// Abandon withdraws the marker of a trial the participant quit without
// answering.
func (c *Controller) Abandon(t Trial) error {
	if err := c.results.Retract(t.Movie); err != nil {
		return err
	}
	state := t.State
	state.Current = ""
	if err := c.saveState(&state); err != nil {
		return err
	}
	log.Info().Str("session", t.State.SessionID).Str("movie", t.Movie).Msg("trial abandoned")
	return nil
}

// Complete appends the response and advances the session state.
func (c *Controller) Complete(t Trial, r Response) (State, error) {
	if err := c.results.Append(r); err != nil {
		return State{}, err
	}

	state := t.State
	state.Completed++
	state.Current = ""
	if err := c.saveState(&state); err != nil {
		return State{}, err
	}

	log.Info().
		Str("session", state.SessionID).
		Str("movie", t.Movie).
		Int("completed", state.Completed).
		Msg("trial recorded")
	return state, nil
}

// saveState stamps and persists state when a state file is configured.
func (c *Controller) saveState(state *State) error {
	state.UpdatedAt = time.Now().UTC()
	if c.cfg.StatePath == "" {
		return nil
	}
	return SaveState(c.cfg.StatePath, *state)
}

func (c *Controller) loadState() (State, bool, error) {
	if c.cfg.StatePath == "" {
		return State{}, false, nil
	}
	return LoadState(c.cfg.StatePath)
}

// countCompleted infers progress from the results log. When the log is the
// script file itself the trials follow the header line.
func (c *Controller) countCompleted(script Script) (int, error) {
	if samePath(c.cfg.ScriptPath, c.cfg.ResultsPath) {
		return script.Trials, nil
	}
	n, err := CountTrials(c.cfg.ResultsPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read results log: %w", err)
	}
	return n, nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
