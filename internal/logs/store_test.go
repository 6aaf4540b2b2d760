package logs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adeane/devinsight/internal/domain"
)

func makeEntry(msg string) domain.LogEntry {
	return domain.LogEntry{
		Level:     domain.LevelInfo,
		Timestamp: "03-21 10:23:45.678",
		Tag:       "test",
		Message:   msg,
	}
}

func TestStore_Append_Get(t *testing.T) {
	s := NewStore(10, 2)

	s.Append(makeEntry("1"))
	s.Append(makeEntry("2"))
	s.Append(makeEntry("3"))

	assert.Equal(t, 3, s.Len())

	e, ok := s.Get(0)
	assert.True(t, ok)
	assert.Equal(t, "1", e.Message)

	e, ok = s.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "3", e.Message)
}

func TestStore_Get_OutOfRange(t *testing.T) {
	s := NewStore(10, 2)
	s.Append(makeEntry("1"))

	_, ok := s.Get(-1)
	assert.False(t, ok)

	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestStore_Eviction(t *testing.T) {
	s := NewStore(5, 2)

	for i := 1; i <= 5; i++ {
		s.Append(makeEntry(fmt.Sprintf("%d", i)))
	}
	assert.Equal(t, 5, s.Len())

	// Sixth append evicts the oldest batch of 2, then appends
	s.Append(makeEntry("6"))
	assert.Equal(t, 4, s.Len())

	e, _ := s.Get(0)
	assert.Equal(t, "3", e.Message)
	e, _ = s.Get(3)
	assert.Equal(t, "6", e.Message)
}

func TestStore_Bound_Oscillation(t *testing.T) {
	capacity, evict := 100, 10
	s := NewStore(capacity, evict)

	for i := 0; i < 10*capacity; i++ {
		s.Append(makeEntry(fmt.Sprintf("%d", i)))
		assert.LessOrEqual(t, s.Len(), capacity)
		if i >= capacity {
			// Once saturated, length oscillates within (capacity-evict, capacity]
			assert.Greater(t, s.Len(), capacity-evict)
		}
	}
}

func TestStore_Order_Preserved_Across_Eviction(t *testing.T) {
	s := NewStore(10, 3)

	for i := 0; i < 25; i++ {
		s.Append(makeEntry(fmt.Sprintf("%d", i)))
	}

	entries := s.Snapshot()
	for i := 1; i < len(entries); i++ {
		prev, cur := 0, 0
		fmt.Sscanf(entries[i-1].Message, "%d", &prev)
		fmt.Sscanf(entries[i].Message, "%d", &cur)
		assert.Equal(t, prev+1, cur)
	}
	// The newest entry always survives
	e, _ := s.Get(s.Len() - 1)
	assert.Equal(t, "24", e.Message)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(10, 2)
	s.Append(makeEntry("1"))
	s.Append(makeEntry("2"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 10, s.Capacity())

	// Usable after clearing
	s.Append(makeEntry("3"))
	e, _ := s.Get(0)
	assert.Equal(t, "3", e.Message)
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(0, 0)
	assert.Greater(t, s.Capacity(), 0)

	// Evict batch larger than capacity falls back to a sane value
	s = NewStore(5, 100)
	for i := 0; i < 20; i++ {
		s.Append(makeEntry("x"))
	}
	assert.LessOrEqual(t, s.Len(), 5)
}
