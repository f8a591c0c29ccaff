package goid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetGIDDiffersAcrossGoroutines(t *testing.T) {
	self := GetGID()
	assert.NotZero(t, self)
	assert.Equal(t, self, GetGID())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[uint64]struct{}{self: {}}
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := GetGID()
			mu.Lock()
			ids[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, ids, 9)
}
