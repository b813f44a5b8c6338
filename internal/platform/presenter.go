// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package platform

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"

	"github.com/gogpu/wrench/renderer"
)

const quadVertex = `#version 150 core
uniform vec4 uDst;
uniform vec4 uUV;
out vec2 vUV;
void main() {
	vec2 c = vec2(float(gl_VertexID & 1), float(gl_VertexID >> 1));
	vUV = mix(uUV.xy, uUV.zw, c);
	gl_Position = vec4(mix(uDst.xy, uDst.zw, c), 0.0, 1.0);
}
` + "\x00"

const quadFragment = `#version 150 core
uniform sampler2D uTex;
in vec2 vUV;
out vec4 fragColor;
void main() {
	fragColor = texture(uTex, vUV);
}
` + "\x00"

// Presenter uploads composited frames to a texture and draws it over the
// whole framebuffer, then draws native textures on top.
type Presenter struct {
	program uint32
	vao     uint32
	tex     uint32
	texW    int
	texH    int
	dst     int32
	uv      int32
}

var _ renderer.Presenter = (*Presenter)(nil)

// NewPresenter compiles the quad program. The window's context must be
// current.
func NewPresenter() (*Presenter, error) {
	program, err := newProgram(quadVertex, quadFragment)
	if err != nil {
		return nil, err
	}
	p := &Presenter{
		program: program,
		dst:     gl.GetUniformLocation(program, gl.Str("uDst\x00")),
		uv:      gl.GetUniformLocation(program, gl.Str("uUV\x00")),
	}
	gl.UseProgram(program)
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str("uTex\x00")), 0)

	gl.GenVertexArrays(1, &p.vao)
	gl.GenTextures(1, &p.tex)
	gl.BindTexture(gl.TEXTURE_2D, p.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return p, nil
}

// Present draws frame at its own size, with row 0 at the top.
func (p *Presenter) Present(frame image.Image, native []renderer.NativeTextureDraw) error {
	img := toRGBA(frame)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	gl.Viewport(0, 0, int32(w), int32(h))
	gl.Disable(gl.BLEND)
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.tex)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if w != p.texW || h != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		p.texW, p.texH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	gl.Uniform4f(p.dst, -1, 1, 1, -1)
	gl.Uniform4f(p.uv, 0, 0, 1, 1)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	if len(native) > 0 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
		for _, d := range native {
			gl.BindTexture(gl.TEXTURE_2D, d.Texture)
			x0, y0 := ndc(d.Dst.Min, w, h)
			x1, y1 := ndc(d.Dst.Max, w, h)
			gl.Uniform4f(p.dst, x0, y0, x1, y1)
			uv := d.UV
			gl.Uniform4f(p.uv, uv.Origin.X, uv.Origin.Y, uv.Origin.X+uv.Size.Width, uv.Origin.Y+uv.Size.Height)
			gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		}
		gl.Disable(gl.BLEND)
	}

	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("platform: gl error 0x%x", e)
	}
	return nil
}

// Close deletes the GL objects.
func (p *Presenter) Close() {
	gl.DeleteTextures(1, &p.tex)
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}

func ndc(pt image.Point, w, h int) (float32, float32) {
	return 2*float32(pt.X)/float32(w) - 1, 1 - 2*float32(pt.Y)/float32(h)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(program, n, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("platform: link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(shader, n, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("platform: compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
