package ports

import (
	"context"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// AnnotationSource fetches the two raw annotation data sets.
// Implementations read a local directory or an HTTP base URL.
//
// Sources report errors; it is the annotation store that decides to fail soft.
type AnnotationSource interface {
	// FetchAnnotations returns the base mix annotations (mix_annotations.json).
	//
	// Returns a *domain.SourceError wrapping domain.ErrSourceUnavailable or
	// domain.ErrSchemaViolation when the file cannot be used.
	FetchAnnotations(ctx context.Context) (*domain.MixAnnotations, error)

	// FetchAnalysis returns the per-pattern analysis records (element_analysis.json),
	// keyed by normalized pattern name.
	FetchAnalysis(ctx context.Context) (domain.AnalysisIndex, error)

	// Describe returns a human-readable location for logs (a path or URL).
	Describe() string
}

// SampleLibrary locates audio sample files for patterns and reads their tags.
// This is optional: the info panels hide the sample section when none is configured.
type SampleLibrary interface {
	// Lookup returns the sample for the given normalized pattern key.
	//
	// Returns domain.ErrSampleNotFound when no file matches the key.
	Lookup(key string) (*domain.SampleInfo, error)
}
