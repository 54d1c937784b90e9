package text

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	gotextfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/textmesh"
)

// ErrEmptyFontData is returned when font data is empty.
var ErrEmptyFontData = errors.New("text: empty font data")

// FontSource is one loaded font file, parsed once for both outline
// extraction (sfnt) and shaping (go-text). FontSource is heavyweight
// and should be shared; it is safe for concurrent use after creation
// because both parsed forms are read-only.
type FontSource struct {
	id     textmesh.FontID
	data   []byte
	sfnt   *sfnt.Font
	gotext *gotextfont.Font
	name   string
}

// ID returns the font id assigned by the owning FontSystem.
func (s *FontSource) ID() textmesh.FontID { return s.id }

// Name returns the font family name, or "Unknown Font" when the face
// carries no name table entry.
func (s *FontSource) Name() string { return s.name }

// GlyphIndex returns the glyph id for a rune, or 0 if the font has no
// mapping for it.
func (s *FontSource) GlyphIndex(r rune) textmesh.GlyphID {
	var buf sfnt.Buffer
	gid, err := s.sfnt.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return textmesh.GlyphID(gid)
}

// FontSystem is a registry of loaded fonts keyed by FontID. It
// implements textmesh.FontProvider, giving the pipeline synchronous
// access to parsed faces.
//
// FontSystem is safe for concurrent use.
type FontSystem struct {
	mu     sync.RWMutex
	nextID textmesh.FontID
	fonts  map[textmesh.FontID]*FontSource
}

// NewFontSystem creates an empty font registry.
func NewFontSystem() *FontSystem {
	return &FontSystem{
		nextID: 1,
		fonts:  make(map[textmesh.FontID]*FontSource),
	}
}

// AddFont parses TTF/OTF font data and registers it, returning the
// assigned id. The data slice is retained; callers must not modify it
// after the call. Returns textmesh.ErrFontParse (wrapped) if either
// parser rejects the data.
func (s *FontSystem) AddFont(data []byte) (textmesh.FontID, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFontData
	}

	sf, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", textmesh.ErrFontParse, err)
	}
	face, err := gotextfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", textmesh.ErrFontParse, err)
	}

	src := &FontSource{
		data:   data,
		sfnt:   sf,
		gotext: face.Font,
		name:   fontName(sf),
	}

	s.mu.Lock()
	src.id = s.nextID
	s.nextID++
	s.fonts[src.id] = src
	s.mu.Unlock()

	textmesh.Logger().Debug("text: registered font", "id", src.id, "name", src.name)
	return src.id, nil
}

// AddFontFromFile loads and registers a font file.
func (s *FontSystem) AddFontFromFile(path string) (textmesh.FontID, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return s.AddFont(data)
}

// Source returns the registered source for an id.
func (s *FontSystem) Source(id textmesh.FontID) (*FontSource, bool) {
	s.mu.RLock()
	src, ok := s.fonts[id]
	s.mu.RUnlock()
	return src, ok
}

// Remove unregisters a font. Outstanding meshes built from it remain
// valid; only future lookups fail.
func (s *FontSystem) Remove(id textmesh.FontID) bool {
	s.mu.Lock()
	_, ok := s.fonts[id]
	delete(s.fonts, id)
	s.mu.Unlock()
	return ok
}

// WithFaceData implements textmesh.FontProvider. It invokes fn with
// the parsed sfnt face for the id and reports whether the id was known.
func (s *FontSystem) WithFaceData(id textmesh.FontID, fn func(face *sfnt.Font)) bool {
	src, ok := s.Source(id)
	if !ok {
		return false
	}
	fn(src.sfnt)
	return true
}

// fontName extracts the family name from the face.
func fontName(f *sfnt.Font) string {
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(&buf, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}
