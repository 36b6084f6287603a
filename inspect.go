package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"moviestudy/internal/similarity"
	"moviestudy/internal/ui"
)

const inspectSnippetRunes = 160

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C967E3")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9567E3")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <movie-id>",
		Short: "Print the perspectives and display set of a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.closeLog()

			movie := args[0]
			perspectives, err := e.selector.Enumerate(movie)
			if err != nil {
				return err
			}
			display, err := e.selector.Select(movie)
			if err != nil {
				return err
			}
			writeInspection(cmd.OutOrStdout(), perspectives, display)
			return nil
		},
	}
}

func writeInspection(w io.Writer, perspectives []string, display similarity.Display) {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	fmt.Fprintln(w, titleStyle.Render("🎬 "+display.Selected))
	fmt.Fprintln(w)
	for i, p := range perspectives {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(fmt.Sprintf("Perspective %d:", i+1)), snippet(p))
	}
	fmt.Fprintln(w)

	if len(display.Slots) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no similar movies found"))
		return
	}
	for i, s := range display.Slots {
		fmt.Fprintf(w, "%d. %s %s %.4f\n", i+1, keyStyle.Render(s.Movie), bar.ViewAs(min(max(s.Similarity, 0), 1)), s.Similarity)
		fmt.Fprintf(w, "   %s\n", dimStyle.Render(fmt.Sprintf("%s (perspective %d)", s.Key, s.Perspective+1)))
		fmt.Fprintf(w, "   %s\n", snippet(s.Text))
	}
}

func snippet(html string) string {
	text := strings.Join(strings.Fields(ui.PlainText(html)), " ")
	r := []rune(text)
	if len(r) <= inspectSnippetRunes {
		return text
	}
	return string(r[:inspectSnippetRunes]) + "…"
}
