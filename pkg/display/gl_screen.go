// Package display presents rendered frames: in a GLFW window, or as a PNG
// sequence on disk.
package display

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"afterglow/internal/logger"
	"afterglow/pkg/config"
)

// GLScreen is a GLFW window that shows each presented frame on a
// fullscreen textured quad. All methods must be called from the main thread.
type GLScreen struct {
	window *glfw.Window
	logger *logger.Logger

	program    uint32
	quadVAO    uint32
	quadVBO    uint32
	quadEBO    uint32
	texture    uint32
	texWidth   int
	texHeight  int
	texLoc     int32
	terminated bool
}

// NewGLScreen opens a window and compiles the presentation shader
func NewGLScreen(cfg config.GraphicsConfig, log *logger.Logger) (*GLScreen, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	setContextHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	s := &GLScreen{window: window, logger: log}
	if err := s.initResources(); err != nil {
		s.Close()
		return nil, err
	}

	log.Infof("OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))
	return s, nil
}

func setContextHints() {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
}

func (s *GLScreen) initResources() error {
	program, err := buildProgram(screenStages...)
	if err != nil {
		return err
	}
	s.program = program
	s.texLoc = gl.GetUniformLocation(program, gl.Str(frameTextureUniform+"\x00"))

	vertices := []float32{
		// Positions   // Texture coords
		-1.0, -1.0, 0.0, 0.0, 1.0,
		1.0, -1.0, 0.0, 1.0, 1.0,
		1.0, 1.0, 0.0, 1.0, 0.0,
		-1.0, 1.0, 0.0, 0.0, 0.0,
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}

	gl.GenVertexArrays(1, &s.quadVAO)
	gl.GenBuffers(1, &s.quadVBO)
	gl.GenBuffers(1, &s.quadEBO)
	gl.BindVertexArray(s.quadVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, s.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.quadEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Texture coord attribute
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	gl.GenTextures(1, &s.texture)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	return nil
}

// Size implements engine.Target. It reports the window size in screen
// coordinates, which is the resolution frames are rendered at.
func (s *GLScreen) Size() (int, int) {
	return s.window.GetSize()
}

// Present uploads img and draws it over the whole framebuffer
func (s *GLScreen) Present(img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if w != s.texWidth || h != s.texHeight {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		s.texWidth, s.texHeight = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	fbw, fbh := s.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(s.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(s.texLoc, 0)
	gl.BindVertexArray(s.quadVAO)
	gl.DrawElements(gl.TRIANGLES, 6, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error 0x%x while presenting", code)
	}

	s.window.SwapBuffers()
	return nil
}

// ShouldClose reports whether the user closed the window or pressed Escape
func (s *GLScreen) ShouldClose() bool {
	if s.window.GetKey(glfw.KeyEscape) == glfw.Press {
		s.window.SetShouldClose(true)
	}
	return s.window.ShouldClose()
}

// PollEvents processes pending window events
func (s *GLScreen) PollEvents() {
	glfw.PollEvents()
}

// Pointer returns the cursor position normalized to the window, y downwards
func (s *GLScreen) Pointer() (float64, float64, bool) {
	x, y := s.window.GetCursorPos()
	w, h := s.window.GetSize()
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	u := x / float64(w)
	v := y / float64(h)
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	return u, v, true
}

// Close releases GL objects, destroys the window and terminates GLFW
func (s *GLScreen) Close() {
	if s.terminated {
		return
	}
	s.terminated = true

	if s.texture != 0 {
		gl.DeleteTextures(1, &s.texture)
	}
	if s.quadVBO != 0 {
		gl.DeleteBuffers(1, &s.quadVBO)
	}
	if s.quadEBO != 0 {
		gl.DeleteBuffers(1, &s.quadEBO)
	}
	if s.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &s.quadVAO)
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
	}

	s.window.Destroy()
	glfw.Terminate()
	s.logger.Debug("Window closed")
}

// shaderStage is one stage of the presentation program
type shaderStage struct {
	name   string
	kind   uint32
	source string
}

// buildProgram compiles every stage and links them into one program. Stage
// objects never outlive the call, whether it succeeds or not.
func buildProgram(stages ...shaderStage) (uint32, error) {
	program := gl.CreateProgram()
	attached := make([]uint32, 0, len(stages))
	release := func() {
		for _, sh := range attached {
			gl.DetachShader(program, sh)
			gl.DeleteShader(sh)
		}
	}

	for _, st := range stages {
		sh := gl.CreateShader(st.kind)
		src, free := gl.Strs(st.source + "\x00")
		gl.ShaderSource(sh, 1, src, nil)
		free()
		gl.CompileShader(sh)

		var status int32
		gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
		if status == gl.FALSE {
			msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
			gl.DeleteShader(sh)
			release()
			gl.DeleteProgram(program)
			return 0, fmt.Errorf("%s shader compilation failed: %s", st.name, msg)
		}
		gl.AttachShader(program, sh)
		attached = append(attached, sh)
	}

	gl.LinkProgram(program)
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		release()
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("shader program linking failed: %s", msg)
	}

	release()
	return program, nil
}

// infoLog reads the compile or link log of a shader or program
func infoLog(object uint32, getiv func(uint32, uint32, *int32), getLog func(uint32, int32, *int32, *uint8)) string {
	var length int32
	getiv(object, gl.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return "no log"
	}
	buf := make([]byte, length)
	getLog(object, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
