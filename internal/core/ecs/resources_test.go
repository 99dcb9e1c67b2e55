package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clearColor struct{ R, G, B uint8 }

type layout struct{ Lines []string }

func TestTakeResourceOnEmptyWorld(t *testing.T) {
	w := NewWorld()

	_, ok := TakeResource[clearColor](w)
	assert.False(t, ok)

	AddResource(w, clearColor{R: 1})
	c, ok := GetResource[clearColor](w)
	require.True(t, ok)
	assert.Equal(t, uint8(1), c.R)

	taken, ok := TakeResource[clearColor](w)
	require.True(t, ok)
	assert.Equal(t, clearColor{R: 1}, taken)
	assert.False(t, HasResource[clearColor](w))
}

func TestAddResourceOverwritesInPlace(t *testing.T) {
	w := NewWorld()
	AddResource(w, clearColor{R: 1})
	borrow, _ := GetResource[clearColor](w)

	AddResource(w, clearColor{G: 2})
	assert.Equal(t, clearColor{G: 2}, *borrow)
	assert.Len(t, w.ResourceTypes(), 1)
}

func TestResourceMissing(t *testing.T) {
	w := NewWorld()
	_, err := Resource[layout](w)
	assert.ErrorIs(t, err, ErrMissingResource)
}

func TestAddResourceAnyUsesDynamicType(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.AddResourceAny(layout{Lines: []string{"a"}}))

	l, ok := GetResource[layout](w)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, l.Lines)

	require.NoError(t, w.AddResourceAny(layout{Lines: []string{"b"}}))
	assert.Equal(t, []string{"b"}, l.Lines)

	assert.ErrorIs(t, w.AddResourceAny(nil), ErrNilResource)
}

func TestResourceTypesKeepInsertionOrder(t *testing.T) {
	w := NewWorld()
	AddResource(w, layout{})
	AddResource(w, clearColor{})
	AddResource(w, 3)

	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[layout](),
		reflect.TypeFor[clearColor](),
		reflect.TypeFor[int](),
	}, w.ResourceTypes())

	assert.True(t, w.RemoveResourceType(reflect.TypeFor[clearColor]()))
	assert.False(t, w.RemoveResourceType(reflect.TypeFor[clearColor]()))
	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[layout](),
		reflect.TypeFor[int](),
	}, w.ResourceTypes())
}
