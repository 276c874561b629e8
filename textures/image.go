package textures

import (
	"fmt"
	"image"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderdemo/graphics"
)

// Factory creates scene textures of a fixed internal size. It satisfies
// resources.TextureBuilder.
type Factory struct {
	Width  int
	Height int
	Wrap   string
	Filter string
	// VFlip stores rows bottom-up, for samplers that expect GL orientation.
	VFlip bool
}

// NewTexture scales img into the factory's size and uploads it.
func (f Factory) NewTexture(img image.Image) (graphics.Texture, error) {
	if img == nil {
		return 0, fmt.Errorf("input image is nil")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return 0, fmt.Errorf("invalid texture size %dx%d", f.Width, f.Height)
	}

	rgba := ScaleToFit(img, f.Width, f.Height)
	if f.VFlip {
		rgba = vflip(rgba)
	}
	return f.upload(rgba), nil
}

func (f Factory) upload(rgba *image.RGBA) graphics.Texture {
	width := int32(rgba.Rect.Dx())
	height := int32(rgba.Rect.Dy())

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(f.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(f.Wrap))
	minFilter, magFilter := getFilterMode(f.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))

	if f.Filter == "mipmap" {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	log.Printf("Created %dx%d texture %d", width, height, textureID)
	return graphics.Texture(textureID)
}

// NewOverlayTexture allocates an empty, transparent width x height texture
// that is refreshed with Upload.
func NewOverlayTexture(width, height int) (graphics.Texture, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid overlay size %dx%d", width, height)
	}
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	blank := make([]byte, width*height*4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(blank))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return graphics.Texture(textureID), nil
}

// Upload replaces the contents of t with img, binding t on the currently
// active texture unit.
func Upload(t graphics.Texture, img *image.RGBA) {
	if t == 0 || img == nil || len(img.Pix) == 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(img.Rect.Dx()), int32(img.Rect.Dy()), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// Delete releases the given textures. Zero handles are skipped.
func Delete(ts ...graphics.Texture) {
	for _, t := range ts {
		if t == 0 {
			continue
		}
		id := uint32(t)
		gl.DeleteTextures(1, &id)
	}
}
