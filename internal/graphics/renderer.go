package graphics

import (
	"voxelworld/internal/profiling"
	"voxelworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer draws world objects with a single directional light.
type Renderer struct {
	shader *Shader
	Camera *Camera

	LightDir   mgl32.Vec3
	Ambient    float32
	Background mgl32.Vec3
}

// NewRenderer needs a current GL context with gl.Init already done.
func NewRenderer(camera *Camera) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	// Meshes are wound CCW when seen from outside.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := NewShader(meshVertexSource, meshFragmentSource)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		shader:     shader,
		Camera:     camera,
		LightDir:   mgl32.Vec3{-0.4, -1, -0.3},
		Ambient:    0.35,
		Background: mgl32.Vec3{0.53, 0.81, 0.92},
	}, nil
}

// Resize updates the viewport and camera aspect.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.Camera.SetViewport(width, height)
}

// Draw clears the frame and draws every drawable object. It returns the
// number of draw calls issued.
func (r *Renderer) Draw(objects []world.Renderable) int {
	defer profiling.Track("graphics.Draw")()

	gl.ClearColor(r.Background.X(), r.Background.Y(), r.Background.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.shader.Use()
	r.shader.SetMatrix4("uView", r.Camera.ViewMatrix())
	r.shader.SetMatrix4("uProjection", r.Camera.ProjectionMatrix())
	r.shader.SetVector3("uLightDir", r.LightDir)
	r.shader.SetFloat("uAmbient", r.Ambient)

	calls := 0
	for _, obj := range objects {
		if !obj.Drawable() {
			continue
		}
		m, ok := obj.Mesh.(*Mesh)
		if !ok {
			continue
		}
		r.shader.SetMatrix4("uModel", obj.Matrix)
		m.draw()
		calls++
	}
	gl.BindVertexArray(0)
	profiling.Count("graphics.drawCalls", int64(calls))
	return calls
}

func (r *Renderer) Delete() {
	r.shader.Delete()
}
