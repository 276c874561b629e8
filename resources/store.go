// Package resources holds the demo's compiled shader programs and decoded
// textures, addressed by index.
package resources

import "github.com/richinsley/goshaderdemo/graphics"

// Store is populated once at startup and read-only afterwards.
type Store struct {
	programs     []graphics.Program
	programNames []string
	textures     []graphics.Texture
	textureNames []string
	overlay      graphics.Texture
}

func NewStore() *Store {
	return &Store{}
}

// AddProgram appends a linked program. Zero handles are ignored.
func (s *Store) AddProgram(p graphics.Program, name string) {
	if p == 0 {
		return
	}
	s.programs = append(s.programs, p)
	s.programNames = append(s.programNames, name)
}

// AddTexture appends a scene texture. Zero handles are ignored.
func (s *Store) AddTexture(t graphics.Texture, name string) {
	if t == 0 {
		return
	}
	s.textures = append(s.textures, t)
	s.textureNames = append(s.textureNames, name)
}

func (s *Store) SetOverlayTexture(t graphics.Texture) {
	s.overlay = t
}

func (s *Store) ProgramCount() int { return len(s.programs) }
func (s *Store) TextureCount() int { return len(s.textures) }

// Program returns the program at index, or zero when index is out of range.
func (s *Store) Program(index int) graphics.Program {
	if index < 0 || index >= len(s.programs) {
		return 0
	}
	return s.programs[index]
}

// ProgramName returns the effect name at index, or "" when out of range.
func (s *Store) ProgramName(index int) string {
	if index < 0 || index >= len(s.programNames) {
		return ""
	}
	return s.programNames[index]
}

// Texture returns the texture at index, or zero when index is out of range.
func (s *Store) Texture(index int) graphics.Texture {
	if index < 0 || index >= len(s.textures) {
		return 0
	}
	return s.textures[index]
}

// TextureName returns the source name at index, or "" when out of range.
func (s *Store) TextureName(index int) string {
	if index < 0 || index >= len(s.textureNames) {
		return ""
	}
	return s.textureNames[index]
}

func (s *Store) OverlayTexture() graphics.Texture {
	return s.overlay
}

// Programs returns a copy of all programs, for cleanup.
func (s *Store) Programs() []graphics.Program {
	return append([]graphics.Program(nil), s.programs...)
}

// Textures returns a copy of all scene textures, for cleanup.
func (s *Store) Textures() []graphics.Texture {
	return append([]graphics.Texture(nil), s.textures...)
}
