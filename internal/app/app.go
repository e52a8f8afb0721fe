package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voxelworld/internal/input"
	"voxelworld/internal/logging"
	"voxelworld/internal/profiling"
	"voxelworld/internal/world"
)

var ErrMissingOption = errors.New("app: surface, drawer and registry are required")

// Surface is the window the loop presents to.
type Surface interface {
	ShouldClose() bool
	RequestClose()
	PollEvents()
	SwapBuffers()
}

// Drawer draws one frame's objects and reports the draw calls issued.
type Drawer interface {
	Draw(objects []world.Renderable) int
}

// Options configures New. Input and Camera may be nil; Logic defaults to
// NopLogic and Limiter to the configured FPS cap.
type Options struct {
	Surface  Surface
	Drawer   Drawer
	Registry *world.Registry
	Input    *input.Manager
	Camera   CameraController
	Logic    Logic
	Limiter  *FPSLimiter
	Logger   logging.Logger

	// SlowFrame logs the heaviest tracked sections of frames longer than
	// this. Zero disables it.
	SlowFrame time.Duration
}

// Frame summarizes one iteration of the loop.
type Frame struct {
	Index     uint64
	DT        float64
	Meshes    world.UpdateStats
	DrawCalls int
	Elapsed   time.Duration
}

// App runs the single-threaded frame loop: input, logic, mesh updates, draw.
type App struct {
	surface  Surface
	drawer   Drawer
	registry *world.Registry
	input    *input.Manager
	camera   CameraController
	logic    Logic
	limiter  *FPSLimiter
	log      logging.Logger

	slowFrame   time.Duration
	profilingOn bool
	lastTime    time.Time
	frames      uint64
}

func New(opts Options) (*App, error) {
	if opts.Surface == nil || opts.Drawer == nil || opts.Registry == nil {
		return nil, ErrMissingOption
	}
	if opts.Logic == nil {
		opts.Logic = NopLogic{}
	}
	if opts.Limiter == nil {
		opts.Limiter = NewFPSLimiter()
	}
	a := &App{
		surface:   opts.Surface,
		drawer:    opts.Drawer,
		registry:  opts.Registry,
		input:     opts.Input,
		camera:    opts.Camera,
		logic:     opts.Logic,
		limiter:   opts.Limiter,
		log:       logging.OrNop(opts.Logger),
		slowFrame: opts.SlowFrame,
	}
	if err := a.logic.Init(a.registry); err != nil {
		return nil, fmt.Errorf("app: logic init: %w", err)
	}
	return a, nil
}

// Run ticks until the surface asks to close or ctx ends, then cleans up the
// logic.
func (a *App) Run(ctx context.Context) error {
	return a.RunUntil(ctx, nil)
}

// RunUntil is Run with an extra stop condition checked after every frame.
func (a *App) RunUntil(ctx context.Context, done func(Frame) bool) error {
	defer a.logic.Cleanup()
	a.lastTime = time.Now()
	for !a.surface.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := a.Tick()
		if done != nil && done(f) {
			return nil
		}
	}
	return nil
}

// Tick runs one frame.
func (a *App) Tick() Frame {
	profiling.ResetFrame()
	start := time.Now()
	if a.lastTime.IsZero() {
		a.lastTime = start
	}
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	a.surface.PollEvents()
	a.handleActions()
	if a.camera != nil {
		a.camera.Update(dt)
	}
	a.logic.Update(dt)

	stats := a.registry.UpdateMeshes()
	calls := a.drawer.Draw(a.registry.RenderableObjects())
	a.surface.SwapBuffers()

	elapsed := time.Since(start)
	if a.slowFrame > 0 && elapsed > a.slowFrame {
		a.log.Warnf("slow frame %d: %v, top: %s", a.frames, elapsed, profiling.TopN(5))
	}
	if a.profilingOn && a.frames%60 == 0 {
		a.log.Infof("frame %d: %s", a.frames, profiling.TopN(5))
	}

	if a.input != nil {
		a.input.PostUpdate()
	}
	a.limiter.Wait()

	f := Frame{Index: a.frames, DT: dt, Meshes: stats, DrawCalls: calls, Elapsed: elapsed}
	a.frames++
	return f
}

func (a *App) handleActions() {
	if a.input == nil {
		return
	}
	if a.input.JustPressed(input.ActionQuit) {
		a.surface.RequestClose()
	}
	if a.input.JustPressed(input.ActionToggleSpin) {
		if t, ok := a.logic.(Toggler); ok {
			t.Toggle()
		}
	}
	if a.input.JustPressed(input.ActionRebuild) {
		a.RebuildAll()
	}
	if a.input.JustPressed(input.ActionToggleProfiling) {
		a.profilingOn = !a.profilingOn
		a.log.Infof("profiling output %v", a.profilingOn)
	}
}

// RebuildAll marks every object for a fresh mesh build.
func (a *App) RebuildAll() {
	for _, obj := range a.registry.Objects() {
		a.registry.MarkDirty(obj.ID())
	}
}

func (a *App) Frames() uint64 { return a.frames }
