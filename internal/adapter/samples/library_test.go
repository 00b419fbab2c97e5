package samples

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/logger"
)

// id3v23 builds a minimal ID3v2.3 tag holding the given text frames.
func id3v23(frames map[string]string) []byte {
	var body bytes.Buffer
	for _, id := range []string{"TIT2", "TPE1", "TCON", "TYER"} {
		text, ok := frames[id]
		if !ok {
			continue
		}
		body.WriteString(id)
		_ = binary.Write(&body, binary.BigEndian, uint32(len(text)+1))
		body.Write([]byte{0, 0}) // frame flags
		body.WriteByte(0)        // ISO-8859-1
		body.WriteString(text)
	}

	size := body.Len()
	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{3, 0, 0})
	out.Write([]byte{byte(size >> 21 & 0x7f), byte(size >> 14 & 0x7f), byte(size >> 7 & 0x7f), byte(size & 0x7f)})
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestLibraryLookup(t *testing.T) {
	dir := t.TempDir()
	tagged := id3v23(map[string]string{
		"TIT2": "Think",
		"TPE1": "Lyn Collins",
		"TCON": "Funk",
		"TYER": "1972",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "think_break.mp3"), tagged, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amen_break.wav"), []byte("not really audio data"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "amen_break.txt"), []byte("notes"), 0o600))

	lib, err := NewLibrary(dir, logger.NewTestLogger())
	require.NoError(t, err)

	think, err := lib.Lookup("think_break")
	require.NoError(t, err)
	assert.Equal(t, "Think", think.Title)
	assert.Equal(t, "Lyn Collins", think.Artist)
	assert.Equal(t, "Funk", think.Genre)
	assert.Equal(t, 1972, think.Year)
	assert.Equal(t, "ID3v2.3", think.Format)

	// Untagged file falls back to the file name; unsupported extensions are ignored
	amen, err := lib.Lookup("amen_break")
	require.NoError(t, err)
	assert.Equal(t, "amen_break", amen.Title)
	assert.Equal(t, "WAV", amen.Format)
	assert.Equal(t, filepath.Join(dir, "amen_break.wav"), amen.Path)
}

func TestLibraryMisses(t *testing.T) {
	dir := t.TempDir()
	lib, err := NewLibrary(dir, logger.NewTestLogger())
	require.NoError(t, err)

	for _, key := range []string{"reese", "", "../etc/passwd"} {
		_, err := lib.Lookup(key)
		assert.ErrorIs(t, err, domain.ErrSampleNotFound, key)
	}

	// Misses are cached for the session
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reese.mp3"), []byte("x"), 0o600))
	_, err = lib.Lookup("reese")
	assert.ErrorIs(t, err, domain.ErrSampleNotFound)
}

func TestNewLibraryValidation(t *testing.T) {
	_, err := NewLibrary(filepath.Join(t.TempDir(), "missing"), logger.NewTestLogger())
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = NewLibrary(file, logger.NewTestLogger())
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
