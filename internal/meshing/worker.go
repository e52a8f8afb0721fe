package meshing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"voxelworld/internal/logging"
	"voxelworld/internal/profiling"
	"voxelworld/internal/voxel"

	"github.com/google/uuid"
)

const defaultQueueSize = 1024

// ShutdownPolicy decides what Close does with tasks still queued.
type ShutdownPolicy int

const (
	// DropPending abandons queued tasks. Their result slots resolve with an
	// empty mesh and ErrWorkerStopped.
	DropPending ShutdownPolicy = iota
	// DrainPending builds every queued task before the worker exits.
	DrainPending
)

// State is the worker lifecycle: Idle while waiting for work, Draining while
// building a task, Stopped once the goroutine has exited.
type State int32

const (
	StateIdle State = iota
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Task is one queued meshing request.
type Task struct {
	ID       uuid.UUID
	ObjectID uint32
	Grid     *voxel.Grid
	result   chan Result
}

// Result is what the worker publishes for a task, exactly once.
type Result struct {
	TaskID   uuid.UUID
	ObjectID uint32
	Mesh     MeshData
	// Err is non-nil when the build failed (Mesh is then empty).
	Err     error
	Elapsed time.Duration
}

// Pending is the reader side of a task's one-shot result slot. It belongs to
// a single consumer; Poll never blocks.
type Pending struct {
	taskID   uuid.UUID
	objectID uint32
	ch       <-chan Result
	res      Result
	done     bool
}

func (p *Pending) TaskID() uuid.UUID { return p.taskID }
func (p *Pending) ObjectID() uint32  { return p.objectID }

// Poll returns the result if the worker has published it.
func (p *Pending) Poll() (Result, bool) {
	if p.done {
		return p.res, true
	}
	select {
	case r := <-p.ch:
		p.res, p.done = r, true
		return r, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result is published or ctx ends. Never call it from
// the frame thread.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	if p.done {
		return p.res, nil
	}
	select {
	case r := <-p.ch:
		p.res, p.done = r, true
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// WorkerOptions configures NewWorker. Zero values pick the greedy builder,
// a 1024-task queue, DropPending and a no-op logger.
type WorkerOptions struct {
	Builder   Builder
	QueueSize int
	Shutdown  ShutdownPolicy
	Logger    logging.Logger
}

// Worker builds meshes on one background goroutine, strictly in submission
// order.
type Worker struct {
	jobs    chan Task
	builder Builder
	policy  ShutdownPolicy
	log     logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex // guards stopped and sends on jobs
	stopped bool

	state     atomic.Int32
	completed atomic.Uint64
}

// NewWorker starts the worker goroutine.
func NewWorker(opts WorkerOptions) *Worker {
	if opts.Builder == nil {
		opts.Builder = Greedy{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		jobs:    make(chan Task, opts.QueueSize),
		builder: opts.Builder,
		policy:  opts.Shutdown,
		log:     logging.OrNop(opts.Logger),
		ctx:     ctx,
		cancel:  cancel,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Submit queues a build of g without blocking. It fails with ErrQueueFull
// when the queue is at capacity and ErrWorkerStopped after Close. The worker
// reads g until the result is published; callers must not mutate it before.
func (w *Worker) Submit(objectID uint32, g *voxel.Grid) (*Pending, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, ErrWorkerStopped
	}

	t := Task{
		ID:       uuid.New(),
		ObjectID: objectID,
		Grid:     g,
		result:   make(chan Result, 1),
	}
	select {
	case w.jobs <- t:
		return &Pending{taskID: t.ID, objectID: objectID, ch: t.result}, nil
	default:
		return nil, ErrQueueFull
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	defer w.state.Store(int32(StateStopped))

	for {
		w.state.Store(int32(StateIdle))

		// A stop request wins over queued work.
		select {
		case <-w.ctx.Done():
			w.finish()
			return
		default:
		}

		select {
		case t := <-w.jobs:
			w.state.Store(int32(StateDraining))
			w.process(t)
		case <-w.ctx.Done():
			w.finish()
			return
		}
	}
}

// finish runs on the worker goroutine after a stop request.
func (w *Worker) finish() {
	if w.policy != DrainPending {
		return
	}
	w.state.Store(int32(StateDraining))
	for {
		select {
		case t := <-w.jobs:
			w.process(t)
		default:
			return
		}
	}
}

func (w *Worker) process(t Task) {
	start := time.Now()
	mesh, err := w.build(t.Grid)
	elapsed := time.Since(start)
	if err != nil {
		w.log.Warnf("mesh task %s for object %d failed: %v", shortID(t.ID), t.ObjectID, err)
		mesh = MeshData{}
	} else {
		w.log.Debugf("mesh task %s for object %d: %d quads in %v", shortID(t.ID), t.ObjectID, mesh.QuadCount(), elapsed)
	}

	t.result <- Result{TaskID: t.ID, ObjectID: t.ObjectID, Mesh: mesh, Err: err, Elapsed: elapsed}
	w.completed.Add(1)
	profiling.Count("meshing.tasks", 1)
}

// build absorbs both returned errors and panics from the builder.
func (w *Worker) build(g *voxel.Grid) (mesh MeshData, err error) {
	defer profiling.Track("meshing.Build")()
	defer func() {
		if r := recover(); r != nil {
			mesh, err = MeshData{}, fmt.Errorf("%w: panic: %v", ErrMeshBuild, r)
		}
	}()
	mesh, err = w.builder.Build(g)
	if err != nil {
		return MeshData{}, fmt.Errorf("%w: %w", ErrMeshBuild, err)
	}
	return mesh, nil
}

// Close stops the worker. The task being built is finished; queued tasks
// follow the shutdown policy. Close is idempotent and blocks until the
// worker goroutine exits.
func (w *Worker) Close() {
	w.mu.Lock()
	already := w.stopped
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	if already {
		return
	}

	dropped := 0
	for {
		select {
		case t := <-w.jobs:
			t.result <- Result{TaskID: t.ID, ObjectID: t.ObjectID, Err: ErrWorkerStopped}
			dropped++
		default:
			if dropped > 0 {
				w.log.Infof("mesh worker stopped, dropped %d queued tasks", dropped)
			}
			return
		}
	}
}

// State reports the lifecycle state.
func (w *Worker) State() State { return State(w.state.Load()) }

// QueueLength returns the number of queued, not yet started tasks.
func (w *Worker) QueueLength() int { return len(w.jobs) }

// Completed returns how many tasks have published a result.
func (w *Worker) Completed() uint64 { return w.completed.Load() }

func shortID(id uuid.UUID) string { return id.String()[:8] }
