package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Minimal textured-quad pipeline: a full-viewport quad sampling a single
// 256x240 RGBA texture that updateTexture re-uploads every completed
// frame. jyane-jnes/ui/ui.go calls newProgram/updateTexture as if they
// already existed; the retrieved snapshot never defines them, so this
// file re-authors the shader pipeline those calls imply, in the same
// minimal style as the rest of jyane-jnes's GL usage (program object,
// no abstraction beyond what's needed to blit one texture per frame).
const vertexShaderSource = `
#version 330
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 texCoordIn;
out vec2 texCoord;
void main() {
	gl_Position = vec4(position, 0.0, 1.0);
	texCoord = texCoordIn;
}
` + "\x00"

const fragmentShaderSource = `
#version 330
in vec2 texCoord;
out vec4 color;
uniform sampler2D tex;
void main() {
	color = texture(tex, texCoord);
}
` + "\x00"

var quadVertices = []float32{
	// position   // texCoord
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, -1, 1, 1,

	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("gl: failed to compile shader: %s", log)
	}
	return shader, nil
}

// newProgram links the vertex/fragment shaders above and uploads the
// static textured-quad geometry, returning the program object and the
// texture to re-upload frames into.
func newProgram() (uint32, uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, 0, fmt.Errorf("gl: failed to link program: %s", log)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	return program, texture, nil
}

// updateTexture re-uploads one completed frame and draws the quad.
func updateTexture(texture uint32, rgba []byte) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 256, 240, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}
