package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshaderdemo/graphics"
	shader "github.com/richinsley/goshaderdemo/shader"
	xlate "github.com/richinsley/goshaderdemo/translator"
	gst "github.com/richinsley/goshadertranslator"
)

// ProgramBuilder translates WebGL2 effect sources and links them against the
// shared quad vertex shader. It satisfies resources.ProgramBuilder.
type ProgramBuilder struct {
	device *GLDevice
}

// BuildProgram translates fragmentSource to GLSL 410 and links it. The
// translator's mapped uniform names are registered with the device so the
// scene can look them up by their source names.
func (b *ProgramBuilder) BuildProgram(name, fragmentSource string) (graphics.Program, error) {
	translator, err := xlate.GetTranslator()
	if err != nil {
		return 0, err
	}
	fsShader, err := translator.TranslateShader(fragmentSource, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return 0, fmt.Errorf("fragment shader translation failed for %s: %w", name, err)
	}

	mapped := func(n string) string {
		if v, ok := fsShader.Variables[n]; ok && v.MappedName != "" {
			return v.MappedName
		}
		return n
	}

	varying := mapped(shader.VaryingTextureCoord)
	if varying == shader.VaryingTextureCoord {
		varying = findVaryingName(fsShader.Code, varying)
	}
	vertexShaderSource := shader.GenerateVertexShader(varying)
	program, err := newProgram(vertexShaderSource, fsShader.Code)
	if err != nil {
		return 0, fmt.Errorf("failed to create shader program %s: %w", name, err)
	}

	names := make(map[string]string)
	for _, n := range []string{
		graphics.UniformSampler,
		graphics.UniformOverlay,
		graphics.UniformTime,
		graphics.UniformAudioLevel,
	} {
		names[n] = mapped(n)
	}
	if b.device != nil {
		b.device.registerProgram(graphics.Program(program), names)
	}
	return graphics.Program(program), nil
}

// varyingDecl matches a vec2 fragment input declaration in translated code.
var varyingDecl = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?(?:smooth\s+|flat\s+)?in\s+(?:highp\s+|mediump\s+|lowp\s+)?vec2\s+(\w+)\s*;`)

// findVaryingName returns the name the translator gave the texture coordinate
// input when it is not listed among the shader's variables. The translator
// keeps the source name as a suffix of the mapped one.
func findVaryingName(code, name string) string {
	for _, m := range varyingDecl.FindAllStringSubmatch(code, -1) {
		if strings.HasSuffix(m[1], name) {
			return m[1]
		}
	}
	return name
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
