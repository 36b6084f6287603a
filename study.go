package main

import (
	"github.com/rs/zerolog/log"

	"moviestudy/internal/dataset"
	"moviestudy/internal/similarity"
	"moviestudy/internal/ui"
)

// buildStudy gathers what the dialog shows for movie. Missing overviews and
// poster URLs degrade to empty values; a short display set is logged.
func buildStudy(data *dataset.Dataset, sel *similarity.Selector, movie string, limit int) (ui.Study, error) {
	perspectives, err := sel.Enumerate(movie)
	if err != nil {
		return ui.Study{}, err
	}
	display, err := sel.Select(movie)
	if err != nil {
		return ui.Study{}, err
	}

	overview, ok := data.Overview(movie)
	if !ok {
		log.Warn().Str("movie", movie).Msg("no overview")
	}
	posterURL, _ := data.PosterURL(movie)

	if len(display.Slots) < limit {
		log.Warn().
			Str("movie", movie).
			Int("slots", len(display.Slots)).
			Int("limit", limit).
			Msg("display set under-filled")
	}

	study := ui.Study{
		Movie:        movie,
		Overview:     overview,
		PosterURL:    posterURL,
		Perspectives: perspectives,
		Slots:        make([]ui.Candidate, 0, len(display.Slots)),
	}
	for _, s := range display.Slots {
		url, _ := data.PosterURL(s.Movie)
		study.Slots = append(study.Slots, ui.Candidate{
			Movie:      s.Movie,
			Text:       s.Text,
			PosterURL:  url,
			Similarity: s.Similarity,
		})
	}
	return study, nil
}
