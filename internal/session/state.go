package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// State is the explicit progress record of a participant. Completed is the
// number of submitted trials and the position of the next movie in sequence
// mode.
type State struct {
	SessionID string    `yaml:"session_id"`
	Completed int       `yaml:"completed"`
	Current   string    `yaml:"current,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

func NewState(completed int) State {
	return State{
		SessionID: uuid.NewString(),
		Completed: completed,
		UpdatedAt: time.Now().UTC(),
	}
}

// LoadState reads the state file. found is false when it does not exist.
func LoadState(path string) (state State, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("failed to read session state: %w", err)
	}
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("failed to parse session state %s: %w", path, err)
	}
	return state, true, nil
}

// SaveState replaces the state file atomically.
func SaveState(path string, state State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace session state: %w", err)
	}
	return nil
}
