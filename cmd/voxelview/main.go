package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"voxelworld/internal/app"
	"voxelworld/internal/config"
	"voxelworld/internal/graphics"
	"voxelworld/internal/input"
	"voxelworld/internal/logging"
	"voxelworld/internal/meshing"
	"voxelworld/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

const shutdownGrace = 5 * time.Second

func init() {
	// GL and glfw calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		mesher    = flag.String("mesher", config.MesherGreedy, "mesh builder: greedy or naive")
		queue     = flag.Int("queue", config.GetMeshing().QueueSize, "mesh task queue capacity")
		shutdown  = flag.String("shutdown", config.ShutdownDrop, "queued tasks on exit: drop or drain")
		snapshot  = flag.Bool("snapshot", true, "mesh a copy of each grid")
		fps       = flag.Int("fps", config.GetFPSLimit(), "frame cap, 0 for unlimited")
		width     = flag.Int("width", 1280, "window width")
		height    = flag.Int("height", 720, "window height")
		vsync     = flag.Bool("vsync", false, "wait for vertical sync")
		debug     = flag.Bool("debug", false, "debug logging")
		headless  = flag.Bool("headless", false, "run the mesh pipeline without a window")
		maxFrames = flag.Uint64("frames", 10000, "headless frame cap")
	)
	flag.Parse()

	if !config.SetMesher(*mesher) {
		fmt.Fprintf(os.Stderr, "unknown mesher %q\n", *mesher)
		os.Exit(2)
	}
	if !config.SetShutdownPolicy(*shutdown) {
		fmt.Fprintf(os.Stderr, "unknown shutdown policy %q\n", *shutdown)
		os.Exit(2)
	}
	config.SetQueueSize(*queue)
	config.SetSnapshotGrids(*snapshot)
	config.SetFPSLimit(*fps)
	config.SetWindowSize(*width, *height)
	config.SetVSync(*vsync)
	config.SetDebug(*debug)

	log := logging.NewDefaultLogger("voxelview", config.GetDebug())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	defer closer.Close()
	closer.Bind(shutdownHook(cancel, done, shutdownGrace, log))

	var err error
	if *headless {
		err = runHeadless(ctx, log, *maxFrames)
	} else {
		err = runWindow(ctx, log)
	}
	close(done)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("%v", err)
		closer.Exit(1)
	}
}

// shutdownHook is the cleanup bound to closer. It only cancels the run
// context and waits for done, so the frame loop returns through its own
// defers on the main thread before the process exits.
func shutdownHook(cancel context.CancelFunc, done <-chan struct{}, grace time.Duration, log logging.Logger) func() {
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(grace):
			log.Warnf("shutdown did not finish within %v", grace)
		}
	}
}

func newWorker(log logging.Logger) (*meshing.Worker, error) {
	cfg := config.GetMeshing()
	builder, err := meshing.BuilderFor(cfg.Mesher)
	if err != nil {
		return nil, err
	}
	policy := meshing.DropPending
	if cfg.Shutdown == config.ShutdownDrain {
		policy = meshing.DrainPending
	}
	return meshing.NewWorker(meshing.WorkerOptions{
		Builder:   builder,
		QueueSize: cfg.QueueSize,
		Shutdown:  policy,
		Logger:    log,
	}), nil
}

func runHeadless(ctx context.Context, log logging.Logger, maxFrames uint64) error {
	worker, err := newWorker(log)
	if err != nil {
		return err
	}
	defer worker.Close()

	backend := world.NewCPUBackend()
	registry := world.NewRegistry(backend, worker, world.Options{
		Logger:        log,
		SnapshotGrids: config.GetMeshing().SnapshotGrids,
	})
	defer registry.Clear()

	if _, err := buildScene(registry); err != nil {
		return err
	}

	a, err := app.New(app.Options{
		Surface:  &app.HeadlessSurface{MaxFrames: maxFrames},
		Drawer:   &app.CountingDrawer{},
		Registry: registry,
		Limiter:  app.NewFixedFPSLimiter(0),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	err = a.RunUntil(ctx, func(app.Frame) bool { return registry.Settled() })
	if err != nil {
		return err
	}

	if !registry.Settled() {
		log.Warnf("frame cap reached with %d builds in flight", registry.PendingCount())
	}
	log.Infof("%d objects meshed in %d frames (%v)", registry.ObjectCount(), a.Frames(), time.Since(start))
	for _, obj := range registry.Objects() {
		g := obj.Grid()
		mesh := obj.Mesh()
		if mesh == nil {
			log.Warnf("object %d: no mesh", obj.ID())
			continue
		}
		log.Infof("object %d: %dx%dx%d, %d solid, %d quads, %d vertices",
			obj.ID(), g.Width(), g.Height(), g.Depth(), g.SolidCount(), mesh.IndexCount()/6, mesh.VertexCount())
	}
	return nil
}

func runWindow(ctx context.Context, log logging.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		return err
	}
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	worker, err := newWorker(log)
	if err != nil {
		return err
	}
	defer worker.Close()

	fbw, fbh := window.GetFramebufferSize()
	camera := graphics.NewCamera(fbw, fbh)
	renderer, err := graphics.NewRenderer(camera)
	if err != nil {
		return err
	}
	defer renderer.Delete()
	renderer.Resize(fbw, fbh)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		renderer.Resize(w, h)
	})

	backend := graphics.NewBackend()
	defer backend.Release()
	registry := world.NewRegistry(backend, worker, world.Options{
		Logger:        log,
		SnapshotGrids: config.GetMeshing().SnapshotGrids,
	})
	// Meshes hold GL buffers, so they go before the context does.
	defer registry.Clear()

	sc, err := buildScene(registry)
	if err != nil {
		return err
	}
	camera.Target = sc.center

	im := input.NewManager()
	im.Attach(window)

	a, err := app.New(app.Options{
		Surface:   windowSurface{window},
		Drawer:    renderer,
		Registry:  registry,
		Input:     im,
		Camera:    app.NewOrbitController(camera, im),
		Logic:     app.NewSpinLogic(0.5, sc.spinning...),
		Logger:    log,
		SlowFrame: 16 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	w, h := config.GetWindowSize()
	window, err := glfw.CreateWindow(w, h, "voxelview", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if config.GetVSync() {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

type windowSurface struct {
	*glfw.Window
}

func (s windowSurface) RequestClose() { s.SetShouldClose(true) }
func (s windowSurface) PollEvents()   { glfw.PollEvents() }
