// Package samples locates the audio sample recorded for each pattern and reads its tags.
//
// A sample belongs to a pattern when its base name equals the pattern's normalized key,
// e.g. "amen_break.mp3" for the pattern "Amen Break".
package samples

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// supportedExtensions lists the sample file types, most preferred first.
var supportedExtensions = []string{".mp3", ".flac", ".m4a", ".ogg", ".wav", ".aiff"}

// Library reads samples from one directory. Lookups are cached per key,
// misses included, because the directory is read-only for the session.
type Library struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]*domain.SampleInfo
}

// Compile-time interface check
var _ ports.SampleLibrary = (*Library)(nil)

// NewLibrary creates a library rooted at dir.
func NewLibrary(dir string, logger *slog.Logger) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("sample directory: %w", err)
	}
	if !info.IsDir() {
		return nil, domain.NewValidationError("samples_dir", dir, "not a directory")
	}
	return &Library{
		dir:    dir,
		logger: logger.With(slog.String("adapter", "samples")),
		cache:  make(map[string]*domain.SampleInfo),
	}, nil
}

// Lookup returns the sample whose base name equals key.
func (l *Library) Lookup(key string) (*domain.SampleInfo, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return nil, domain.ErrSampleNotFound
	}

	l.mu.Lock()
	info, cached := l.cache[key]
	l.mu.Unlock()
	if cached {
		if info == nil {
			return nil, domain.ErrSampleNotFound
		}
		return info, nil
	}

	path := l.find(key)
	if path != "" {
		info = readSample(path)
		l.logger.Debug("sample found", slog.String("key", key), slog.String("path", path))
	}

	l.mu.Lock()
	l.cache[key] = info
	l.mu.Unlock()

	if info == nil {
		return nil, domain.ErrSampleNotFound
	}
	return info, nil
}

// find returns the preferred sample file for key, or "" when there is none.
func (l *Library) find(key string) string {
	matches, err := filepath.Glob(filepath.Join(l.dir, key+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}

	best, bestRank := "", len(supportedExtensions)
	for _, m := range matches {
		rank := slices.Index(supportedExtensions, strings.ToLower(filepath.Ext(m)))
		if rank >= 0 && rank < bestRank {
			best, bestRank = m, rank
		}
	}
	return best
}

// readSample extracts tag metadata. Files without readable tags still produce a
// sample named after the file.
func readSample(path string) *domain.SampleInfo {
	ext := filepath.Ext(path)
	info := &domain.SampleInfo{
		Path:   path,
		Title:  strings.TrimSuffix(filepath.Base(path), ext),
		Format: strings.ToUpper(strings.TrimPrefix(ext, ".")),
	}

	file, err := os.Open(path)
	if err != nil {
		return info
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil || metadata == nil {
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(metadata.Artist())
	info.Album = strings.TrimSpace(metadata.Album())
	info.Genre = strings.TrimSpace(metadata.Genre())
	if year := metadata.Year(); year > 0 {
		info.Year = year
	}
	if format := metadata.Format(); format != tag.UnknownFormat {
		info.Format = string(format)
	}
	return info
}
