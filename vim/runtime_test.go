package vim

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOwnerLock(t *testing.T) {
	t.Run("Held by creator", func(t *testing.T) {
		l := NewOwnerLock()
		assert.True(t, l.Held())
		l.Release()
		assert.False(t, l.Held())
		l.Acquire()
		assert.True(t, l.Held())
	})

	t.Run("Double release panics", func(t *testing.T) {
		l := NewOwnerLock()
		l.Release()
		assert.PanicsWithValue(t, "vim: release of unowned runtime", l.Release)
	})

	t.Run("Acquire waits for release", func(t *testing.T) {
		l := NewOwnerLock()
		var (
			mu    sync.Mutex
			order []string
		)
		note := func(s string) {
			mu.Lock()
			order = append(order, s)
			mu.Unlock()
		}

		done := make(chan struct{})
		go func() {
			l.Acquire()
			note("worker")
			l.Release()
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		note("owner")
		l.Release()
		<-done
		l.Acquire()

		assert.Equal(t, []string{"owner", "worker"}, order)
	})
}
