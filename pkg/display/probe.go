package display

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Capabilities describes the OpenGL context a window would get
type Capabilities struct {
	Version  string
	Renderer string
}

// Probe checks that an OpenGL 4.1 core context can be created, using a hidden
// window that is destroyed before returning. Call it from the main thread
// before building a GLScreen.
func Probe() (Capabilities, error) {
	if err := glfw.Init(); err != nil {
		return Capabilities{}, fmt.Errorf("GLFW unavailable: %w", err)
	}
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	setContextHints()
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(1, 1, "probe", nil, nil)
	if err != nil {
		return Capabilities{}, fmt.Errorf("OpenGL 4.1 core context unavailable: %w", err)
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	defer glfw.DetachCurrentContext()

	if err := gl.Init(); err != nil {
		return Capabilities{}, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}

	caps := Capabilities{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
	}
	glfw.DefaultWindowHints()
	return caps, nil
}
