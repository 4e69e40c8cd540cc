package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Many goroutines share a small pool without deadlocking.
func TestConcurrentParsing(t *testing.T) {
	manager := NewParserManagerWithSize(quietLogger(), 4)
	defer manager.Close()

	const goroutines = 64
	paths := []string{"a.ts", "b.tsx", "c.js"}

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tree, err := manager.ParseFile([]byte("export const n: number = 1;"), paths[i%len(paths)])
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	stats := manager.GetStats()
	assert.Equal(t, goroutines, stats.ParsesCalled)
	// 4 per grammar at most.
	assert.LessOrEqual(t, stats.ParsersCreated, 4*len(paths))
}
