package keyed

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutexSerializesSameKey(t *testing.T) {
	req := require.New(t)

	m := NewMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("auction-1")
			counter++
			m.Unlock("auction-1")
		}()
	}
	wg.Wait()
	req.Equal(100, counter)
}

func TestMutexDistinctKeysDoNotDeadlock(t *testing.T) {
	m := NewMutex()
	m.Lock("a")
	done := make(chan struct{})
	go func() {
		// may share a shard with "a", must still finish once "a" unlocks
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()
	m.Unlock("a")
	<-done
}
