package textures

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// getWrapMode converts a wrap name to the OpenGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case "repeat":
		return gl.REPEAT
	case "clamp":
		return gl.CLAMP_TO_EDGE
	case "mirror":
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// getFilterMode converts a filter name to OpenGL min/mag filter constants.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	case "nearest":
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR, gl.LINEAR
	}
}
