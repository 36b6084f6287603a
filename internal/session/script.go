// Package session decides which movie a study session shows and records the
// participant's answers.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode int

const (
	// ModeSequence walks a pre-assigned list of movies.
	ModeSequence Mode = iota
	// ModeRandom draws uniformly from the catalog.
	ModeRandom
)

func (m Mode) String() string {
	if m == ModeRandom {
		return "random"
	}
	return "sequence"
}

const randomToken = "random"

var ErrEmptyScript = errors.New("session script is empty")

// Script is a parsed session script. The first line is either "random" or a
// list literal of movie ids; every later newline-terminated, non-blank line is
// a completed trial.
type Script struct {
	Mode   Mode
	Movies []string
	Trials int
}

func ReadScript(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to open session script: %w", err)
	}
	defer f.Close()

	s, err := ParseScript(f)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScript(r io.Reader) (Script, error) {
	br := bufio.NewReader(r)

	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return Script{}, err
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return Script{}, ErrEmptyScript
	}

	var s Script
	if first == randomToken {
		s.Mode = ModeRandom
	} else {
		movies, err := parseMovieList(first)
		if err != nil {
			return Script{}, err
		}
		s.Mode = ModeSequence
		s.Movies = movies
	}

	if err == nil {
		s.Trials, err = countTrials(br)
		if err != nil {
			return Script{}, err
		}
	}
	return s, nil
}

// parseMovieList reads a list literal such as ['a', 'b'] or ["a","b"]. Both
// are YAML flow sequences.
func parseMovieList(line string) ([]string, error) {
	var movies []string
	if err := yaml.Unmarshal([]byte(line), &movies); err != nil {
		return nil, fmt.Errorf("malformed movie list: %w", err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("malformed movie list: no movies in %q", line)
	}
	return movies, nil
}

// countTrials counts completed records. A trailing line without a newline is
// a session that was shown but never submitted and does not count, and
// neither does an orphaned "<movie>, " marker that a later run terminated.
func countTrials(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		if isRecord(line) {
			n++
		}
	}
}

// CountTrials counts the completed records of a results log that carries no
// script header. A missing file has no trials.
func CountTrials(path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return countTrials(f)
}

func isRecord(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && !strings.HasSuffix(line, ",")
}
