package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/mixviz/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/logger"
)

func TestMergeAnalysis_FoghornBass(t *testing.T) {
	base := &domain.MixAnnotations{
		YouTubeVideoID: "vid",
		Patterns: []domain.Pattern{
			{Name: "Foghorn Bass", Type: "bass", Timestamps: []domain.Timestamp{{Start: 1, End: 2}}},
		},
	}
	analysis := domain.AnalysisIndex{
		"foghorn_bass": {RhythmPattern: []float64{0.1, 0.9}},
	}

	merged := MergeAnalysis(base, analysis)

	require.Len(t, merged.Patterns, 1)
	p := merged.Patterns[0]
	assert.Equal(t, []float64{0.1, 0.9}, p.RhythmPattern)
	assert.NotNil(t, p.Fingerprint, "fingerprint is present")
	assert.Empty(t, p.Fingerprint, "and empty")
	assert.Equal(t, domain.CategoryDnB, p.Category)
	assert.Equal(t, "vid", merged.YouTubeVideoID)

	// Input untouched
	assert.Nil(t, base.Patterns[0].Fingerprint)
	assert.Nil(t, base.Patterns[0].RhythmPattern)
}

func TestMergeAnalysis_BaseFingerprintWins(t *testing.T) {
	base := &domain.MixAnnotations{
		Patterns: []domain.Pattern{
			{
				Name:           "Amen Break",
				Type:           "break",
				Fingerprint:    domain.Fingerprint{"bpm": float64(165)},
				PitchHistogram: []float64{1, 2},
			},
		},
	}
	analysis := domain.AnalysisIndex{
		"amen_break": {
			Fingerprint:         domain.Fingerprint{"bpm": float64(170), "key": "C"},
			Details:             map[string]any{"description": "the break"},
			PitchHistogram:      []float64{0.5},
			NoteDensityOverTime: []float64{3, 4},
			MostCommonPitches:   []int{36, 38},
		},
	}

	p := MergeAnalysis(base, analysis).Patterns[0]

	assert.Equal(t, domain.Fingerprint{"bpm": float64(165)}, p.Fingerprint)
	assert.Equal(t, "the break", p.Description())
	assert.Equal(t, []float64{0.5}, p.PitchHistogram, "series present in the record replace the base")
	assert.Equal(t, []float64{3, 4}, p.NoteDensityOverTime)
	assert.Equal(t, []int{36, 38}, p.MostCommonPitches)
	assert.Equal(t, domain.CategoryJungle, p.Category)

	// The result owns its maps
	p.Details["description"] = "changed"
	assert.Equal(t, "the break", analysis["amen_break"].Details["description"])
}

func TestMergeAnalysis_UnmatchedPassesThrough(t *testing.T) {
	base := &domain.MixAnnotations{
		Patterns: []domain.Pattern{{Name: "Lonely Pad", Type: "ambient"}},
		Songs:    []domain.Song{{Title: "A", Start: 0, End: 10}},
	}

	merged := MergeAnalysis(base, domain.AnalysisIndex{"other": {RhythmPattern: []float64{1}}})

	p := merged.Patterns[0]
	assert.Nil(t, p.Fingerprint)
	assert.Nil(t, p.RhythmPattern)
	assert.Equal(t, domain.CategoryOther, p.Category)
	assert.Equal(t, base.Songs, merged.Songs)

	assert.NotNil(t, MergeAnalysis(nil, nil).Patterns)
}

func TestAnnotationStore_Load(t *testing.T) {
	bus := eventbus.NewSyncEventBus(nil)
	defer bus.Close()

	var loaded *domain.MixAnnotations
	bus.Subscribe(domain.EventAnnotationsLoaded, func(e domain.Event) {
		loaded = e.(domain.AnnotationsLoadedEvent).Annotations
	})

	source := &stubSource{
		annotations: &domain.MixAnnotations{
			YouTubeVideoID: "abc123",
			Patterns: []domain.Pattern{
				{Name: "Foghorn Bass", Type: "dnb", Timestamps: []domain.Timestamp{{Start: 5, End: 9}, {Start: 9, End: 3}}},
			},
			Songs: []domain.Song{{Title: "Original Nuttah", Start: 0, End: 30}},
		},
		analysis: domain.AnalysisIndex{"foghorn_bass": {RhythmPattern: []float64{0.1, 0.9}}},
	}

	store := NewAnnotationStore(logger.NewTestLogger(), source, nil, bus)
	mix := store.Load(context.Background())

	require.NotNil(t, mix)
	assert.Equal(t, "abc123", mix.YouTubeVideoID)
	assert.Equal(t, []float64{0.1, 0.9}, mix.Patterns[0].RhythmPattern)
	assert.Equal(t, []domain.Timestamp{{Start: 5, End: 9}}, mix.Patterns[0].Timestamps, "inverted interval dropped")
	assert.Same(t, mix, store.Annotations())
	assert.Same(t, mix, loaded)
}

func TestAnnotationStore_FailSoft(t *testing.T) {
	log, captured := logger.NewCaptureLogger()

	source := &stubSource{
		annErr: domain.NewSourceError("mix_annotations.json", "fetch", domain.ErrSourceUnavailable),
		anaErr: errors.New("boom"),
	}

	store := NewAnnotationStore(log, source, nil, nil)
	mix := store.Load(context.Background())

	require.NotNil(t, mix)
	assert.Empty(t, mix.YouTubeVideoID)
	assert.NotNil(t, mix.Patterns)
	assert.Empty(t, mix.Patterns)
	assert.NotNil(t, mix.Songs)
	assert.True(t, mix.Empty())

	assert.Contains(t, captured.String(), "mix annotations unavailable")
	assert.Contains(t, captured.String(), "element analysis unavailable")
}

func TestAnnotationStore_AnalysisFailureKeepsBase(t *testing.T) {
	source := &stubSource{annotations: amenMix(), anaErr: errors.New("404")}

	mix := NewAnnotationStore(logger.NewTestLogger(), source, nil, nil).Load(context.Background())

	assert.Equal(t, "abc123", mix.YouTubeVideoID)
	assert.Equal(t, []string{"Amen Break"}, NewResolver().Resolve(15, mix).Names())
}

func TestAnnotationStore_NilSource(t *testing.T) {
	mix := NewAnnotationStore(logger.NewTestLogger(), nil, nil, nil).Load(context.Background())
	assert.True(t, mix.Empty())
}

type stubSamples struct {
	info *domain.SampleInfo
	keys []string
}

func (s *stubSamples) Lookup(key string) (*domain.SampleInfo, error) {
	s.keys = append(s.keys, key)
	if s.info == nil {
		return nil, domain.ErrSampleNotFound
	}
	return s.info, nil
}

func TestAnnotationStore_Sample(t *testing.T) {
	pattern := domain.Pattern{Name: "Amen Break"}

	assert.Nil(t, NewAnnotationStore(logger.NewTestLogger(), nil, nil, nil).Sample(pattern))

	missing := &stubSamples{}
	assert.Nil(t, NewAnnotationStore(logger.NewTestLogger(), nil, missing, nil).Sample(pattern))
	assert.Equal(t, []string{"amen_break"}, missing.keys)

	found := &stubSamples{info: &domain.SampleInfo{Title: "Amen, Brother"}}
	info := NewAnnotationStore(logger.NewTestLogger(), nil, found, nil).Sample(pattern)
	require.NotNil(t, info)
	assert.Equal(t, "Amen, Brother", info.Title)
}
