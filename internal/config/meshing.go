package config

import (
	"strings"
	"sync"
)

const (
	MesherGreedy = "greedy"
	MesherNaive  = "naive"

	ShutdownDrop  = "drop"
	ShutdownDrain = "drain"

	minQueueSize = 16
	maxQueueSize = 65536
)

// MeshingSettings holds mesh pipeline configuration
type MeshingSettings struct {
	mu            sync.RWMutex
	mesher        string
	queueSize     int
	shutdown      string
	snapshotGrids bool
}

// Meshing is an immutable copy of the mesh pipeline settings, read once by
// constructors.
type Meshing struct {
	Mesher        string
	QueueSize     int
	Shutdown      string
	SnapshotGrids bool
}

var globalMeshingSettings = &MeshingSettings{
	mesher:        MesherGreedy,
	queueSize:     1024,
	shutdown:      ShutdownDrop,
	snapshotGrids: true,
}

// GetMeshing returns the current mesh pipeline settings
func GetMeshing() Meshing {
	globalMeshingSettings.mu.RLock()
	defer globalMeshingSettings.mu.RUnlock()
	return Meshing{
		Mesher:        globalMeshingSettings.mesher,
		QueueSize:     globalMeshingSettings.queueSize,
		Shutdown:      globalMeshingSettings.shutdown,
		SnapshotGrids: globalMeshingSettings.snapshotGrids,
	}
}

// SetMesher selects the mesh builder; unknown names keep the current one
func SetMesher(kind string) bool {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != MesherGreedy && kind != MesherNaive {
		return false
	}
	globalMeshingSettings.mu.Lock()
	defer globalMeshingSettings.mu.Unlock()
	globalMeshingSettings.mesher = kind
	return true
}

// SetQueueSize sets the worker queue capacity
func SetQueueSize(size int) {
	globalMeshingSettings.mu.Lock()
	defer globalMeshingSettings.mu.Unlock()

	// Clamp to reasonable values
	if size < minQueueSize {
		size = minQueueSize
	}
	if size > maxQueueSize {
		size = maxQueueSize
	}
	globalMeshingSettings.queueSize = size
}

// SetShutdownPolicy selects what happens to queued tasks on shutdown
func SetShutdownPolicy(policy string) bool {
	policy = strings.ToLower(strings.TrimSpace(policy))
	if policy != ShutdownDrop && policy != ShutdownDrain {
		return false
	}
	globalMeshingSettings.mu.Lock()
	defer globalMeshingSettings.mu.Unlock()
	globalMeshingSettings.shutdown = policy
	return true
}

// SetSnapshotGrids toggles cloning grids at submit time
func SetSnapshotGrids(enabled bool) {
	globalMeshingSettings.mu.Lock()
	defer globalMeshingSettings.mu.Unlock()
	globalMeshingSettings.snapshotGrids = enabled
}
