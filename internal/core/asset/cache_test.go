package asset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/phosphor/internal/core/ecs"
)

type texture struct {
	ID     uint32
	Width  int
	Pixels []byte
}

func (t texture) Clone() texture {
	t.Pixels = append([]byte(nil), t.Pixels...)
	return t
}

type mesh struct {
	Vertices int
}

func TestLoadRunsLoaderOnce(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	Register(w, func(_ *ecs.World, path string) (mesh, error) {
		calls++
		return mesh{Vertices: len(path)}, nil
	})

	first, err := Load[mesh](w, "assets/cube.obj")
	require.NoError(t, err)
	second, err := Load[mesh](w, "assets/cube.obj")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, CacheOf(w).Len())
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, CacheOf(w).Stats())
}

func TestLoadNormalizesPath(t *testing.T) {
	w := ecs.NewWorld()
	var seen []string
	Register(w, func(_ *ecs.World, path string) (mesh, error) {
		seen = append(seen, path)
		return mesh{}, nil
	})

	_, err := Load[mesh](w, "assets/models/../cube.obj")
	require.NoError(t, err)
	_, err = Load[mesh](w, "./assets/cube.obj")
	require.NoError(t, err)

	assert.Equal(t, []string{"assets/cube.obj"}, seen)
}

func TestFailedLoadIsNotCached(t *testing.T) {
	w := ecs.NewWorld()
	boom := errors.New("file not found")
	fail := true
	calls := 0
	Register(w, func(_ *ecs.World, _ string) (mesh, error) {
		calls++
		if fail {
			return mesh{}, boom
		}
		return mesh{Vertices: 8}, nil
	})

	_, err := Load[mesh](w, "cube.obj")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssetLoad)
	assert.ErrorIs(t, err, boom)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "cube.obj", le.Path)
	assert.Equal(t, 0, CacheOf(w).Len())

	fail = false
	m, err := Load[mesh](w, "cube.obj")
	require.NoError(t, err)
	assert.Equal(t, 8, m.Vertices)
	assert.Equal(t, 1, CacheOf(w).Len())
	assert.Equal(t, 2, calls)
	assert.Equal(t, uint64(1), CacheOf(w).Stats().Failures)
}

func TestSameTypeDifferentPathsAndTypes(t *testing.T) {
	w := ecs.NewWorld()
	Register(w, func(_ *ecs.World, path string) (mesh, error) {
		return mesh{Vertices: len(path)}, nil
	})
	Register(w, func(_ *ecs.World, path string) (texture, error) {
		return texture{Width: len(path)}, nil
	})

	_, err := Load[mesh](w, "a.bin")
	require.NoError(t, err)
	_, err = Load[texture](w, "a.bin")
	require.NoError(t, err)
	_, err = Load[mesh](w, "bb.bin")
	require.NoError(t, err)

	keys := CacheOf(w).Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "a.bin", keys[0].Path)
	assert.Equal(t, "bb.bin", keys[2].Path)
	assert.NotEqual(t, KeyOf[mesh]("a.bin").ID(), KeyOf[texture]("a.bin").ID())
}

func TestClonerDuplicatesBackingData(t *testing.T) {
	w := ecs.NewWorld()
	Register(w, func(_ *ecs.World, _ string) (texture, error) {
		return texture{ID: 7, Pixels: []byte{1, 2, 3}}, nil
	})

	a, err := Load[texture](w, "t.png")
	require.NoError(t, err)
	a.Pixels[0] = 99

	b, err := Load[texture](w, "t.png")
	require.NoError(t, err)
	assert.Equal(t, byte(1), b.Pixels[0])
	assert.Equal(t, a.ID, b.ID)
}

func TestLoaderHasWorldAccess(t *testing.T) {
	w := ecs.NewWorld()
	type uploads int
	Register(w, func(w *ecs.World, path string) (mesh, error) {
		n, _ := ecs.TakeResource[uploads](w)
		ecs.AddResource(w, n+1)
		w.Spawn(path)
		return mesh{}, nil
	})

	_, err := Load[mesh](w, "m.obj")
	require.NoError(t, err)
	_, err = Load[mesh](w, "m.obj")
	require.NoError(t, err)

	n, ok := ecs.GetResource[uploads](w)
	require.True(t, ok)
	assert.Equal(t, uploads(1), *n)
	assert.Equal(t, 1, w.Len())
}

func TestLoadWithoutLoader(t *testing.T) {
	w := ecs.NewWorld()
	_, err := Load[mesh](w, "x")
	assert.ErrorIs(t, err, ErrNoLoader)
	assert.False(t, Registered[mesh](w))
}

func TestReentrantLoadIsACycle(t *testing.T) {
	w := ecs.NewWorld()
	var inner error
	Register(w, func(w *ecs.World, path string) (mesh, error) {
		_, inner = Load[mesh](w, path)
		return mesh{Vertices: 1}, nil
	})

	_, err := Load[mesh](w, "loop.obj")
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrLoadCycle)
}

func TestInvalidateAndPurge(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	Register(w, func(_ *ecs.World, _ string) (mesh, error) {
		calls++
		return mesh{}, nil
	})

	require.NoError(t, Preload[mesh](w, "a", "b", "c"))
	assert.Equal(t, 3, CacheOf(w).Len())

	assert.True(t, Invalidate[mesh](w, "b"))
	assert.False(t, Invalidate[mesh](w, "b"))
	_, err := Load[mesh](w, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, calls)

	Purge(w)
	assert.Equal(t, 0, CacheOf(w).Len())
	assert.True(t, Registered[mesh](w))
}

func TestPreloadJoinsFailures(t *testing.T) {
	w := ecs.NewWorld()
	Register(w, func(_ *ecs.World, path string) (mesh, error) {
		if path == "bad" {
			return mesh{}, errors.New("malformed")
		}
		return mesh{}, nil
	})
	err := Preload[mesh](w, "ok", "bad")
	assert.ErrorIs(t, err, ErrAssetLoad)
	assert.Equal(t, 1, CacheOf(w).Len())
}

func TestTryLoadRemembersFailures(t *testing.T) {
	w := ecs.NewWorld()
	broken := true
	calls := 0
	Register(w, func(_ *ecs.World, path string) (mesh, error) {
		calls++
		if broken {
			return mesh{}, errors.New("missing " + path)
		}
		return mesh{Vertices: 8}, nil
	})

	for range 30 {
		_, ok := TryLoad[mesh](w, "rock.obj")
		assert.False(t, ok)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, Stats{Misses: 1, Failures: 1}, CacheOf(w).Stats())

	_, err := Load[mesh](w, "rock.obj")
	require.Error(t, err, "Load itself keeps retrying")
	assert.Equal(t, 2, calls)

	broken = false
	_, ok := TryLoad[mesh](w, "rock.obj")
	assert.False(t, ok, "still remembered until invalidated")
	assert.True(t, Invalidate[mesh](w, "rock.obj"))

	m, ok := TryLoad[mesh](w, "rock.obj")
	require.True(t, ok)
	assert.Equal(t, 8, m.Vertices)
	assert.Equal(t, 3, calls)
}

func TestPurgeForgetsFailures(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	Register(w, func(_ *ecs.World, _ string) (mesh, error) {
		calls++
		return mesh{}, errors.New("nope")
	})

	TryLoad[mesh](w, "a")
	TryLoad[mesh](w, "a")
	Purge(w)
	TryLoad[mesh](w, "a")
	assert.Equal(t, 2, calls)
}
