// Package annotations provides the AnnotationSource that reads the two mix data files
// from a local directory or an HTTP base URL.
//
// Every file is validated against an embedded JSON Schema before it is decoded, so a
// malformed file is reported as a schema violation instead of half-decoded data.
package annotations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// Data file names, relative to the source location.
const (
	AnnotationsFile = "mix_annotations.json"
	AnalysisFile    = "element_analysis.json"
)

// DefaultTimeout bounds a single HTTP fetch.
const DefaultTimeout = 10 * time.Second

// maxFileSize caps how much of a data file is read into memory.
const maxFileSize = 32 << 20

// Source reads mix_annotations.json and element_analysis.json.
//
// The location is either a directory path or an http(s):// base URL; the file names
// are appended to it.
type Source struct {
	location string
	remote   bool
	client   *http.Client
	logger   *slog.Logger

	annotationsSchema *jsonschema.Schema
	analysisSchema    *jsonschema.Schema
}

// Compile-time interface check
var _ ports.AnnotationSource = (*Source)(nil)

// NewSource creates a source for the given location.
// A non-positive timeout uses DefaultTimeout.
func NewSource(location string, timeout time.Duration, logger *slog.Logger) (*Source, error) {
	if location == "" {
		return nil, domain.NewValidationError("location", location, "data location must not be empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	annotationsSchema, err := compileSchema("mix_annotations.schema.json")
	if err != nil {
		return nil, err
	}
	analysisSchema, err := compileSchema("element_analysis.schema.json")
	if err != nil {
		return nil, err
	}

	remote := strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")

	return &Source{
		location:          location,
		remote:            remote,
		client:            &http.Client{Timeout: timeout},
		logger:            logger.With(slog.String("adapter", "annotations")),
		annotationsSchema: annotationsSchema,
		analysisSchema:    analysisSchema,
	}, nil
}

// Describe returns the configured directory or base URL.
func (s *Source) Describe() string {
	return s.location
}

// FetchAnnotations reads and validates mix_annotations.json.
func (s *Source) FetchAnnotations(ctx context.Context) (*domain.MixAnnotations, error) {
	var ann domain.MixAnnotations
	if err := s.load(ctx, AnnotationsFile, s.annotationsSchema, &ann); err != nil {
		return nil, err
	}
	if ann.Patterns == nil {
		ann.Patterns = []domain.Pattern{}
	}
	if ann.Songs == nil {
		ann.Songs = []domain.Song{}
	}
	return &ann, nil
}

// FetchAnalysis reads and validates element_analysis.json.
func (s *Source) FetchAnalysis(ctx context.Context) (domain.AnalysisIndex, error) {
	index := domain.AnalysisIndex{}
	if err := s.load(ctx, AnalysisFile, s.analysisSchema, &index); err != nil {
		return nil, err
	}
	return index, nil
}

// load fetches name, validates it against schema and decodes it into out.
func (s *Source) load(ctx context.Context, name string, schema *jsonschema.Schema, out any) error {
	data, err := s.fetch(ctx, name)
	if err != nil {
		return domain.NewSourceError(name, "fetch", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.NewSourceError(name, "decode", err)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.NewSourceError(name, "validate", fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewSourceError(name, "decode", err)
	}

	s.logger.Debug("data file loaded", slog.String("file", name), slog.Int("bytes", len(data)))
	return nil
}

func (s *Source) fetch(ctx context.Context, name string) ([]byte, error) {
	if !s.remote {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(filepath.Join(s.location, name))
	}

	url := strings.TrimSuffix(s.location, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFileSize))
}
