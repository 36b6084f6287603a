package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"moviestudy/internal/config"
)

// Response is everything the participant submits for one trial.
type Response struct {
	Seen     string
	Choices  [config.QuestionCount]string
	Comments [config.QuestionCount]string
	// Relevant holds one flag per display slot; unused slots stay false.
	Relevant [config.MaxSlots]bool
}

// Record formats r as one results log line:
//
//	seen, c1, c2, c3, 't1', 't2', 't3', b1, ..., b9
//
// Comments are single-quoted with quotes escaped and newlines folded so the
// record stays on one line.
func (r Response) Record() string {
	fields := make([]string, 0, 1+2*config.QuestionCount+config.MaxSlots)
	fields = append(fields, r.Seen)
	fields = append(fields, r.Choices[:]...)
	for _, c := range r.Comments {
		fields = append(fields, quote(c))
	}
	for _, b := range r.Relevant {
		fields = append(fields, pyBool(b))
	}
	return strings.Join(fields, ", ") + "\n"
}

var commentEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

func quote(s string) string {
	return "'" + commentEscaper.Replace(s) + "'"
}

// Booleans are written the way the analysis scripts of earlier study runs
// read them.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ResultsLog appends to the study's results file.
type ResultsLog struct {
	path string
}

func NewResultsLog(path string) *ResultsLog {
	return &ResultsLog{path: path}
}

func (l *ResultsLog) Path() string { return l.path }

// MarkShown records that movie is on screen. The line is completed by Append.
// A header or an orphaned marker without a trailing newline is terminated
// first so the record starts on its own line.
func (l *ResultsLog) MarkShown(movie string) error {
	return l.append(movie+", ", true)
}

// Retract removes the marker of movie while it is still the unfinished tail
// of the log. Anything else at the tail is left alone.
func (l *ResultsLog) Retract(movie string) error {
	marker := movie + ", "
	f, err := os.OpenFile(l.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open results log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat results log: %w", err)
	}
	size, n := info.Size(), int64(len(marker))
	if size < n {
		return nil
	}
	tail := make([]byte, n)
	if _, err := f.ReadAt(tail, size-n); err != nil {
		return fmt.Errorf("failed to read results log: %w", err)
	}
	if string(tail) != marker {
		return nil
	}
	return f.Truncate(size - n)
}

func (l *ResultsLog) Append(r Response) error {
	return l.append(r.Record(), false)
}

func (l *ResultsLog) append(s string, lineStart bool) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open results log: %w", err)
	}
	if lineStart {
		unfinished, err := endsMidLine(f)
		if err != nil {
			f.Close()
			return err
		}
		if unfinished {
			log.Warn().Str("path", l.path).Msg("terminating unfinished line in results log")
			s = "\n" + s
		}
	}
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		return fmt.Errorf("failed to write results log: %w", err)
	}
	return f.Close()
}

// endsMidLine reports whether f is non-empty and its last byte is not a
// newline.
func endsMidLine(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("failed to stat results log: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("failed to read results log: %w", err)
	}
	return last[0] != '\n', nil
}
