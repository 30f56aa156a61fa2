package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](time.Hour)
	defer c.Close()

	c.Set("key1", "value1")

	val, found := c.Get("key1")
	assert.True(t, found)
	assert.Equal(t, "value1", val)
}

func TestCache_GetMissing(t *testing.T) {
	c := New[*int](time.Hour)
	defer c.Close()

	val, found := c.Get("nonexistent")
	assert.False(t, found)
	assert.Nil(t, val)
}

func TestCache_Expiration(t *testing.T) {
	c := New[string](50 * time.Millisecond)
	defer c.Close()

	c.Set("key", "value")

	val, found := c.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", val)

	time.Sleep(100 * time.Millisecond)

	val, found = c.Get("key")
	assert.False(t, found)
	assert.Empty(t, val)

	c.evictExpired()
	assert.Zero(t, c.Len())
}

func TestCache_SetWithTTL(t *testing.T) {
	c := New[string](time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "value", 50*time.Millisecond)
	c.Set("long", "value")

	_, found := c.Get("short")
	assert.True(t, found)
	_, found = c.Get("long")
	assert.True(t, found)

	time.Sleep(100 * time.Millisecond)

	_, found = c.Get("short")
	assert.False(t, found)
	_, found = c.Get("long")
	assert.True(t, found)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New[string](time.Hour)
	defer c.Close()

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Delete("key1")

	_, found := c.Get("key1")
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	_, found = c.Get("key2")
	assert.False(t, found)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string](time.Hour)
	defer c.Close()

	callCount := 0
	fn := func() (string, error) {
		callCount++
		return "computed", nil
	}

	val, err := c.GetOrSet("key", fn)
	require.NoError(t, err)
	assert.Equal(t, "computed", val)

	val, err = c.GetOrSet("key", fn)
	require.NoError(t, err)
	assert.Equal(t, "computed", val)
	assert.Equal(t, 1, callCount)
}

func TestCache_GetOrSetError(t *testing.T) {
	c := New[string](time.Hour)
	defer c.Close()

	boom := errors.New("boom")
	_, err := c.GetOrSet("key", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestRevisionCache(t *testing.T) {
	rc := NewRevisionCache[int]("usage", time.Hour)
	defer rc.Close()

	calls := 0
	compute := func() (int, error) {
		calls++
		return calls * 10, nil
	}

	v, err := rc.GetOrCompute(1, compute)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = rc.GetOrCompute(1, compute)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = rc.GetOrCompute(2, compute)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "usage:rev:2", RevisionKey("usage", 2))
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New[int](time.Hour)
	c.Close()
	c.Close()
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Hour)
	defer c.Close()

	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			c.Set("key", i)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			c.Get("key")
		}
		done <- true
	}()

	<-done
	<-done
}
