package main

import (
	"testing"
	"time"

	"voxelworld/internal/meshing"
	"voxelworld/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSceneMeshes(t *testing.T) {
	w := meshing.NewWorker(meshing.WorkerOptions{})
	defer w.Close()
	r := world.NewRegistry(world.NewCPUBackend(), w, world.Options{SnapshotGrids: true})

	sc, err := buildScene(r)
	require.NoError(t, err)
	assert.Len(t, sc.spinning, 2)
	assert.Equal(t, 8, r.ObjectCount())

	require.Eventually(t, func() bool {
		r.UpdateMeshes()
		return r.Settled()
	}, 5*time.Second, time.Millisecond)

	for _, obj := range r.Objects() {
		require.NotNil(t, obj.Mesh(), "object %d", obj.ID())
		assert.Positive(t, obj.Mesh().IndexCount(), "object %d", obj.ID())
	}

	// The checkerboard cannot merge across cells on its top face.
	ground := r.Objects()[0]
	assert.GreaterOrEqual(t, ground.Mesh().IndexCount()/6, 24*24)
}
