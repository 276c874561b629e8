package shader

import (
	"fmt"
	"strings"
)

// Effect is a named fragment shader from the built-in library.
type Effect struct {
	Name   string
	Source string
}

// VaryingTextureCoord is the interpolated texture coordinate passed from the
// vertex stage to every effect.
const VaryingTextureCoord = "vTextureCoord"

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The vertex stage is compiled directly as GLSL 410. Its output must carry the
// name the translator assigned to the fragment stage's input, so it is
// substituted at build time.
const vertexShaderTemplateGL = `#version 410 core
layout (location = 0) in vec3 aVertexPosition;
layout (location = 1) in vec2 aTextureCoord;
out vec2 %s;
void main() {
    %s = aTextureCoord;
    gl_Position = vec4(aVertexPosition, 1.0);
}
`

// GenerateVertexShader returns the quad vertex shader writing the texture
// coordinate to varyingName.
func GenerateVertexShader(varyingName string) string {
	if varyingName == "" {
		varyingName = VaryingTextureCoord
	}
	return fmt.Sprintf(vertexShaderTemplateGL, varyingName, varyingName)
}

// ──────────────────────────────── Effect preamble ───────────────────────────────

// Effects are written in WebGL2 GLSL ES and translated for the desktop
// profile. Each effect body defines
//
//	vec4 effect(vec2 uv, float t)
//
// where t is the scene time in seconds; the wrapper composites the overlay.
const preamble = `#version 300 es
precision highp float;
precision highp int;

uniform sampler2D uSampler;
uniform sampler2D uOverlaySampler;
uniform float currentTimeMs;
uniform float uAudioLevel;

in vec2 vTextureCoord;
out vec4 fragColor;
`

const mainWrapper = `
void main(void)
{
    vec4 scene = effect(vTextureCoord, currentTimeMs / 1000.0);
    vec4 overlay = texture(uOverlaySampler, vTextureCoord);
    fragColor = vec4(mix(scene.rgb, overlay.rgb, overlay.a), 1.0);
}
`

// GetFragmentShader combines the preamble, an effect body and the wrapper.
func GetFragmentShader(body string) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString(body)
	b.WriteString(mainWrapper)
	return b.String()
}

// ──────────────────────────────── Effect library ────────────────────────────────

const rippleBody = `
vec4 effect(vec2 uv, float t) {
    vec2 c = uv - 0.5;
    float d = length(c);
    float w = sin(d * 40.0 - t * 4.0) * 0.015 * (1.0 + uAudioLevel);
    return texture(uSampler, uv + normalize(c + 1e-5) * w);
}
`

const swirlBody = `
vec4 effect(vec2 uv, float t) {
    vec2 c = uv - 0.5;
    float d = length(c);
    float a = (0.6 - min(d, 0.6)) * 2.5 * sin(t * 0.8);
    float s = sin(a);
    float k = cos(a);
    return texture(uSampler, vec2(k * c.x - s * c.y, s * c.x + k * c.y) + 0.5);
}
`

const pixelateBody = `
vec4 effect(vec2 uv, float t) {
    float cells = mix(12.0, 220.0, 0.5 + 0.5 * cos(t * 0.9));
    vec2 q = (floor(uv * cells) + 0.5) / cells;
    return texture(uSampler, q);
}
`

const chromaBody = `
vec4 effect(vec2 uv, float t) {
    vec2 o = vec2(0.006 + 0.004 * sin(t * 2.0), 0.0) * (1.0 + 2.0 * uAudioLevel);
    float r = texture(uSampler, uv + o).r;
    float g = texture(uSampler, uv).g;
    float b = texture(uSampler, uv - o).b;
    return vec4(r, g, b, 1.0);
}
`

const kaleidoBody = `
vec4 effect(vec2 uv, float t) {
    vec2 c = uv - 0.5;
    float r = length(c);
    float a = atan(c.y, c.x) + t * 0.3;
    float seg = 3.14159265 / 3.0;
    a = abs(mod(a, 2.0 * seg) - seg);
    vec2 q = vec2(cos(a), sin(a)) * r + 0.5;
    vec4 k = texture(uSampler, q);
    float mixv = 0.5 + 0.5 * sin(t * 0.5);
    return mix(texture(uSampler, uv), k, mixv);
}
`

const waveBody = `
vec4 effect(vec2 uv, float t) {
    vec2 q = uv;
    q.x += sin(uv.y * 18.0 + t * 2.5) * 0.01;
    q.y += cos(uv.x * 14.0 + t * 1.7) * 0.01;
    vec4 c = texture(uSampler, q);
    float glow = 0.1 * sin(t + uv.x * 6.2831);
    return vec4(c.rgb + glow, 1.0);
}
`

// Effects returns the built-in effect library in a fixed order.
func Effects() []Effect {
	return []Effect{
		{Name: "ripple", Source: GetFragmentShader(rippleBody)},
		{Name: "swirl", Source: GetFragmentShader(swirlBody)},
		{Name: "pixelate", Source: GetFragmentShader(pixelateBody)},
		{Name: "chroma", Source: GetFragmentShader(chromaBody)},
		{Name: "kaleidoscope", Source: GetFragmentShader(kaleidoBody)},
		{Name: "wave", Source: GetFragmentShader(waveBody)},
	}
}
