package assets

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afterglow/internal/logger"
	"afterglow/pkg/scene"
)

const gardenYAML = `
name: garden
nodes:
  - name: ground
    shape: plane
    half_size: 10
    color: [0.3, 0.3, 0.3]
  - name: lantern
    shape: group
    position: [0, 1, 0]
    children:
      - name: flame
        shape: sphere
        radius: 0.5
        color: [1, 0.6, 0.2]
        emissive: 0.9
        bloom: true
      - name: post
        shape: cylinder
        radius: 0.1
        height: 1
        position: [0, -1, 0]
  - name: ghost
    shape: ellipsoid
    radii: [1, 2, 1]
    hidden: true
animations:
  - node: lantern
    type: bob
    amplitude: 0.5
    speed: 2
`

func quietLogger() *logger.Logger {
	l := logger.NewLogger("error")
	l.SetOutput(io.Discard)
	return l
}

func TestParseBuildsHierarchy(t *testing.T) {
	model, err := Parse([]byte(gardenYAML))
	require.NoError(t, err)

	assert.Equal(t, "garden", model.Name)
	require.Len(t, model.Root.Children(), 3)

	lantern := model.Root.Children()[1]
	assert.Equal(t, "lantern", lantern.Name())
	assert.Equal(t, scene.V3(0, 1, 0), lantern.AsObject().Position)
	require.Len(t, lantern.Children(), 2)

	flame, ok := lantern.Children()[0].(*scene.Mesh)
	require.True(t, ok)
	assert.True(t, flame.BloomEnabled())
	assert.Equal(t, 0.9, flame.Material.Emissive)
	assert.Same(t, lantern.AsObject(), flame.Parent())

	post := lantern.Children()[1].(*scene.Mesh)
	assert.False(t, post.BloomEnabled())

	ghost := model.Root.Children()[2]
	assert.False(t, ghost.AsObject().Visible)

	require.Len(t, model.Animations, 1)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "name: x\n",
		"bad yaml":       "nodes: [",
		"unknown shape":  "nodes:\n  - shape: cube\n",
		"zero radius":    "nodes:\n  - shape: sphere\n",
		"unknown anim":   "nodes:\n  - name: a\n    shape: sphere\n    radius: 1\nanimations:\n  - node: a\n    type: spin\n",
		"missing target": "nodes:\n  - name: a\n    shape: sphere\n    radius: 1\nanimations:\n  - node: b\n    type: bob\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBobAnimation(t *testing.T) {
	obj := scene.NewGroup("b")
	obj.Position = scene.V3(1, 2, 3)
	bob := NewBob(obj, 0.5, math.Pi/2, 0)

	bob.Step(1)
	assert.InDelta(t, 2.5, obj.Position.Y, 1e-9)
	assert.Equal(t, 1.0, obj.Position.X)

	bob.Step(1)
	assert.InDelta(t, 2.0, obj.Position.Y, 1e-9)
}

func TestOrbitAnimation(t *testing.T) {
	obj := scene.NewGroup("o")
	orbit := NewOrbit(obj, 2, math.Pi/2, 0)
	assert.InDelta(t, 2.0, obj.Position.X, 1e-9)

	orbit.Step(1)
	assert.InDelta(t, 0.0, obj.Position.X, 1e-9)
	assert.InDelta(t, 2.0, obj.Position.Z, 1e-9)
	assert.Equal(t, 0.0, obj.Position.Y)
}

func TestLoadAsync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gardenYAML), 0644))

	loader := NewLoader(quietLogger())

	loaded := make(chan *Model, 1)
	failed := make(chan error, 1)
	loader.LoadAsync(context.Background(), path,
		func(m *Model) { loaded <- m },
		func(err error) { failed <- err })

	select {
	case m := <-loaded:
		assert.Equal(t, "garden", m.Name)
	case err := <-failed:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("load timed out")
	}
}

func TestLoadAsyncReportsFailure(t *testing.T) {
	loader := NewLoader(quietLogger())

	failed := make(chan error, 1)
	loader.LoadAsync(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"),
		func(*Model) { t.Error("onLoad called for missing file") },
		func(err error) { failed <- err })

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, os.ErrNotExist)
	case <-time.After(5 * time.Second):
		t.Fatal("load timed out")
	}
}

func TestLoadAsyncCancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gardenYAML), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failed := make(chan error, 1)
	NewLoader(quietLogger()).LoadAsync(ctx, path,
		func(*Model) { t.Error("onLoad called after cancel") },
		func(err error) { failed <- err })

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("load timed out")
	}
}

func TestProceduralIsDeterministic(t *testing.T) {
	a := Procedural(7, 9)
	b := Procedural(7, 9)

	names := func(m *Model) []string {
		var out []string
		scene.Traverse(m.Root, func(n scene.Node, world scene.Vector3) {
			out = append(out, n.Name())
		})
		return out
	}
	assert.Equal(t, names(a), names(b))
	assert.Len(t, a.Animations, 3)

	var tagged, untaggedBright int
	scene.Traverse(a.Root, func(n scene.Node, _ scene.Vector3) {
		m, ok := n.(*scene.Mesh)
		if !ok {
			return
		}
		if m.BloomEnabled() {
			tagged++
		} else if m.Material.Emissive >= 1 {
			untaggedBright++
		}
	})
	assert.Equal(t, 3, tagged)
	assert.Equal(t, 1, untaggedBright)
}

func TestLoadNamesUnnamedModelAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - shape: sphere\n    radius: 1\n"), 0644))

	model, err := NewLoader(quietLogger()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shrine", model.Name)
	assert.Equal(t, "model", model.Root.Name())
}
