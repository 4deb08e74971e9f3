package spinner

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWaitStopsOnDone(t *testing.T) {
	var out syncBuffer
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		Wait(&out, done)
		close(finished)
	}()
	time.Sleep(3 * tick)
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after done was closed")
	}
	assert.Contains(t, out.String(), "s")
	assert.Contains(t, out.String(), "\r\033[K")
}

func TestRunCallsFn(t *testing.T) {
	called := false
	Run(func() { called = true })
	assert.True(t, called)
}
