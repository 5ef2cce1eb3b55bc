package jobs

import (
	"context"
	"time"

	"github.com/emrgen/glossary/internal/store"
	"github.com/sirupsen/logrus"
)

// StatsReporter periodically logs entry and like counts along with the
// current most-liked terms.
type StatsReporter struct {
	store    store.Store
	schedule string
}

func NewStatsReporter(store store.Store, schedule string) *StatsReporter {
	return &StatsReporter{store: store, schedule: schedule}
}

func (s *StatsReporter) Name() string {
	return "stats-reporter"
}

func (s *StatsReporter) Schedule() string {
	return s.schedule
}

func (s *StatsReporter) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entries, err := s.store.CountGlossaries(ctx)
	if err != nil {
		logrus.Errorf("failed to count glossary entries: %v", err)
		return
	}

	likes, err := s.store.CountAllLikes(ctx)
	if err != nil {
		logrus.Errorf("failed to count likes: %v", err)
		return
	}

	popular, err := s.store.ListPopularGlossaries(ctx, 3)
	if err != nil {
		logrus.Errorf("failed to list popular glossary entries: %v", err)
		return
	}

	terms := make([]string, 0, len(popular))
	for _, entry := range popular {
		terms = append(terms, entry.Term)
	}

	logrus.Infof("glossary stats: entries=%d likes=%d top=%v", entries, likes, terms)
}
