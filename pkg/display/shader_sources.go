package display

// Shader sources for presenting a CPU-rendered frame

import "github.com/go-gl/gl/v4.1-core/gl"

// frameTextureUniform is the sampler the fragment shader reads the frame from
const frameTextureUniform = "frameTexture"

var screenStages = []shaderStage{
	{name: "vertex", kind: gl.VERTEX_SHADER, source: screenVertexShader},
	{name: "fragment", kind: gl.FRAGMENT_SHADER, source: screenFragmentShader},
}

// Vertex shader for the fullscreen quad
const screenVertexShader = `
#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
`

// Fragment shader that samples the uploaded frame as-is
const screenFragmentShader = `
#version 410 core
in vec2 TexCoord;
out vec4 FragColor;

uniform sampler2D frameTexture;

void main() {
    FragColor = vec4(texture(frameTexture, TexCoord).rgb, 1.0);
}
`
