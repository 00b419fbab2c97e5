package service

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// AnnotationStore loads the annotated mix once and serves it read-only afterwards.
// Loading never fails: a broken source degrades to empty data and a warning.
type AnnotationStore struct {
	// Dependencies (injected)
	logger  *slog.Logger
	source  ports.AnnotationSource
	samples ports.SampleLibrary
	bus     ports.EventBus

	mu          sync.RWMutex
	annotations *domain.MixAnnotations
}

// NewAnnotationStore creates a new annotation store.
// samples and bus are optional.
func NewAnnotationStore(
	logger *slog.Logger,
	source ports.AnnotationSource,
	samples ports.SampleLibrary,
	bus ports.EventBus,
) *AnnotationStore {
	return &AnnotationStore{
		logger:      logger.With(slog.String("service", "annotations")),
		source:      source,
		samples:     samples,
		bus:         bus,
		annotations: domain.NewEmptyAnnotations(),
	}
}

// Load fetches both data sets concurrently, merges them and stores the result.
// Errors are logged and replaced by empty data; the returned value is never nil.
func (s *AnnotationStore) Load(ctx context.Context) *domain.MixAnnotations {
	var (
		base     *domain.MixAnnotations
		analysis domain.AnalysisIndex
		baseErr  error
		anaErr   error
		wg       sync.WaitGroup
	)

	if s.source == nil {
		baseErr = domain.ErrSourceUnavailable
		anaErr = domain.ErrSourceUnavailable
	} else {
		wg.Add(2)
		go func() {
			defer wg.Done()
			base, baseErr = s.source.FetchAnnotations(ctx)
		}()
		go func() {
			defer wg.Done()
			analysis, anaErr = s.source.FetchAnalysis(ctx)
		}()
		wg.Wait()
	}

	if baseErr != nil || base == nil {
		s.logger.Warn("mix annotations unavailable, showing empty mix",
			slog.String("source", s.describe()),
			slog.Any("error", orUnavailable(baseErr)))
		base = domain.NewEmptyAnnotations()
	}
	if anaErr != nil || analysis == nil {
		s.logger.Warn("element analysis unavailable, patterns keep their base data",
			slog.String("source", s.describe()),
			slog.Any("error", orUnavailable(anaErr)))
		analysis = domain.AnalysisIndex{}
	}

	merged := MergeAnalysis(s.sanitize(base), analysis)

	s.mu.Lock()
	s.annotations = merged
	s.mu.Unlock()

	s.logger.Info("annotations loaded",
		slog.String("video_id", merged.YouTubeVideoID),
		slog.Int("patterns", len(merged.Patterns)),
		slog.Int("songs", len(merged.Songs)),
		slog.Int("analysis_records", len(analysis)))

	if s.bus != nil {
		s.bus.Publish(domain.NewAnnotationsLoadedEvent(merged))
	}
	return merged
}

// Annotations returns the loaded mix (empty before Load).
func (s *AnnotationStore) Annotations() *domain.MixAnnotations {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.annotations
}

// Sample returns tag metadata for the pattern's sample file, or nil when
// no library is configured or no file matches.
func (s *AnnotationStore) Sample(p domain.Pattern) *domain.SampleInfo {
	if s.samples == nil {
		return nil
	}
	info, err := s.samples.Lookup(p.Key())
	if err != nil {
		if !errors.Is(err, domain.ErrSampleNotFound) {
			s.logger.Debug("sample lookup failed", slog.String("pattern", p.Name), slog.Any("error", err))
		}
		return nil
	}
	return info
}

func (s *AnnotationStore) describe() string {
	if s.source == nil {
		return "<none>"
	}
	return s.source.Describe()
}

// sanitize drops intervals whose end precedes their start.
func (s *AnnotationStore) sanitize(base *domain.MixAnnotations) *domain.MixAnnotations {
	out := *base
	out.Songs = slices.DeleteFunc(slices.Clone(base.Songs), func(song domain.Song) bool {
		if song.End < song.Start {
			s.logger.Warn("dropping song with inverted interval",
				slog.String("title", song.Title),
				slog.Float64("start", song.Start),
				slog.Float64("end", song.End))
			return true
		}
		return false
	})

	out.Patterns = make([]domain.Pattern, len(base.Patterns))
	for i, p := range base.Patterns {
		p.Timestamps = slices.DeleteFunc(slices.Clone(p.Timestamps), func(ts domain.Timestamp) bool {
			if ts.End < ts.Start {
				s.logger.Warn("dropping inverted interval",
					slog.String("pattern", p.Name),
					slog.Float64("start", ts.Start),
					slog.Float64("end", ts.End))
				return true
			}
			return false
		})
		out.Patterns[i] = p
	}
	return &out
}

func orUnavailable(err error) error {
	if err == nil {
		return domain.ErrSourceUnavailable
	}
	return err
}

// MergeAnalysis joins analysis records into the base patterns by normalized name.
//
// For a matching record: the fingerprint and details are copied when the base
// lacks them (a pattern that ends up with no fingerprint gets an empty one), and
// each numeric series present in the record replaces the base series. Patterns
// without a record pass through unchanged. Categories are assigned here.
//
// The inputs are not modified; the result owns fresh slices and maps.
func MergeAnalysis(base *domain.MixAnnotations, analysis domain.AnalysisIndex) *domain.MixAnnotations {
	if base == nil {
		base = domain.NewEmptyAnnotations()
	}

	out := &domain.MixAnnotations{
		YouTubeVideoID: base.YouTubeVideoID,
		MixTitle:       base.MixTitle,
		MixDescription: base.MixDescription,
		Patterns:       make([]domain.Pattern, 0, len(base.Patterns)),
		Songs:          slices.Clone(base.Songs),
	}
	if out.Songs == nil {
		out.Songs = []domain.Song{}
	}

	for _, p := range base.Patterns {
		merged := clonePattern(p)
		merged.Category = domain.ParseCategory(p.Type)

		if record, ok := analysis[p.Key()]; ok {
			if merged.Fingerprint == nil {
				merged.Fingerprint = domain.Fingerprint(maps.Clone(record.Fingerprint))
			}
			if merged.Fingerprint == nil {
				merged.Fingerprint = domain.Fingerprint{}
			}
			if merged.Details == nil {
				merged.Details = maps.Clone(record.Details)
			}
			if record.RhythmPattern != nil {
				merged.RhythmPattern = slices.Clone(record.RhythmPattern)
			}
			if record.PitchHistogram != nil {
				merged.PitchHistogram = slices.Clone(record.PitchHistogram)
			}
			if record.NoteDensityOverTime != nil {
				merged.NoteDensityOverTime = slices.Clone(record.NoteDensityOverTime)
			}
			if record.MostCommonPitches != nil {
				merged.MostCommonPitches = slices.Clone(record.MostCommonPitches)
			}
		}

		out.Patterns = append(out.Patterns, merged)
	}

	return out
}

func clonePattern(p domain.Pattern) domain.Pattern {
	p.Fingerprint = domain.Fingerprint(maps.Clone(map[string]any(p.Fingerprint)))
	p.Details = maps.Clone(p.Details)
	p.Timestamps = slices.Clone(p.Timestamps)
	p.RhythmPattern = slices.Clone(p.RhythmPattern)
	p.PitchHistogram = slices.Clone(p.PitchHistogram)
	p.NoteDensityOverTime = slices.Clone(p.NoteDensityOverTime)
	p.MostCommonPitches = slices.Clone(p.MostCommonPitches)
	return p
}
