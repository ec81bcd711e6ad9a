package queue

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type txItem struct {
	data string
}

func TestSliceQueue(t *testing.T) {
	assert := assert.New(t)
	t.Run("Empty Queue", func(t *testing.T) {
		q := NewSliceQueue[*txItem](1)

		assert.True(q.IsEmpty())
		assert.Equal(0, q.Length())

		item, ok := q.Dequeue()
		assert.False(ok)
		assert.Nil(item)

		item, ok = q.Peek()
		assert.False(ok)
		assert.Nil(item)
		assert.Empty(q.Drain())
	})

	t.Run("Enqueue and Dequeue", func(t *testing.T) {
		q := NewSliceQueue[*txItem](1)

		item1 := &txItem{"data1"}
		item2 := &txItem{"data2"}
		q.Enqueue(item1)
		q.Enqueue(item2)
		assert.Equal(2, q.Length())

		got, ok := q.Dequeue()
		assert.True(ok)
		assert.Same(item1, got)

		got, ok = q.Dequeue()
		assert.True(ok)
		assert.Same(item2, got)
		assert.True(q.IsEmpty())
	})

	t.Run("Peek", func(t *testing.T) {
		q := NewSliceQueue[int](1)
		q.Enqueue(1)
		q.Enqueue(2)

		v, ok := q.Peek()
		assert.True(ok)
		assert.Equal(1, v)
		assert.Equal(2, q.Length())
	})

	t.Run("Snapshot and Drain", func(t *testing.T) {
		q := NewSliceQueue[int](4)
		for i := 0; i < 4; i++ {
			q.Enqueue(i)
		}

		snap := q.Snapshot()
		assert.Equal([]int{0, 1, 2, 3}, snap)
		snap[0] = 99
		v, _ := q.Peek()
		assert.Equal(0, v, "snapshot must not alias the queue")

		assert.Equal([]int{0, 1, 2, 3}, q.Drain())
		assert.True(q.IsEmpty())

		q.Enqueue(7)
		assert.Equal([]int{7}, q.Snapshot())
	})

	t.Run("Concurrency", func(t *testing.T) {
		var mu sync.Mutex
		q := NewSliceQueue[*txItem](1)

		var wg sync.WaitGroup
		for i := 0; i < 1000; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				mu.Lock()
				q.Enqueue(&txItem{strconv.Itoa(i)})
				mu.Unlock()
			}(i)
		}
		wg.Wait()

		assert.Equal(1000, q.Length())
		assert.Len(q.Drain(), 1000)
	})
}
