package resources

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/richinsley/goshaderdemo/graphics"
	"github.com/richinsley/goshaderdemo/shader"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ProgramBuilder compiles an effect's fragment source into a program.
type ProgramBuilder interface {
	BuildProgram(name, fragmentSource string) (graphics.Program, error)
}

// TextureBuilder uploads a decoded image as a scene texture.
type TextureBuilder interface {
	NewTexture(img image.Image) (graphics.Texture, error)
}

// ProgressFunc receives the loading progress as a fraction in [0, 1].
type ProgressFunc func(fraction float64)

// Loader fills a Store from the effect library and image files.
type Loader struct {
	Programs ProgramBuilder
	Textures TextureBuilder
	Progress ProgressFunc
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// ImagePaths lists the decodable images in dir, sorted by name.
func ImagePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if slices.Contains(imageExtensions, ext) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// DecodeImage reads and decodes the image at path.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// Load compiles every effect and uploads every image into store, reporting
// progress after each item. Items that fail are skipped with a warning; Load
// only fails when no program or no texture could be created.
func (l *Loader) Load(store *Store, effects []shader.Effect, imagePaths []string) error {
	total := len(effects) + len(imagePaths)
	done := 0
	report := func() {
		done++
		if l.Progress != nil && total > 0 {
			l.Progress(float64(done) / float64(total))
		}
	}

	for _, effect := range effects {
		p, err := l.Programs.BuildProgram(effect.Name, effect.Source)
		if err != nil {
			log.Printf("Warning: effect %s failed to build, skipping: %v", effect.Name, err)
		} else {
			store.AddProgram(p, effect.Name)
			log.Printf("Loaded effect %d: %s", store.ProgramCount()-1, effect.Name)
		}
		report()
	}

	for _, path := range imagePaths {
		if err := l.loadImage(store, path); err != nil {
			log.Printf("Warning: image %s skipped: %v", path, err)
		}
		report()
	}

	var errs []error
	if store.ProgramCount() == 0 {
		errs = append(errs, errors.New("no shader program could be built"))
	}
	if store.TextureCount() == 0 {
		errs = append(errs, errors.New("no image could be loaded"))
	}
	return errors.Join(errs...)
}

func (l *Loader) loadImage(store *Store, path string) error {
	img, err := DecodeImage(path)
	if err != nil {
		return err
	}
	t, err := l.Textures.NewTexture(img)
	if err != nil {
		return fmt.Errorf("failed to create texture: %w", err)
	}
	store.AddTexture(t, filepath.Base(path))
	return nil
}
