package main

import (
	"sync"
	"testing"

	"github.com/schollz/progressbar/v3"
)

func silentByteProgress() (*byteProgress, *int) {
	bars := 0
	p := newByteProgress()
	p.newBar = func(total int64) *progressbar.ProgressBar {
		bars++
		return progressbar.DefaultBytesSilent(total)
	}
	return p, &bars
}

func TestByteProgress_BarLifecycle(t *testing.T) {
	p, bars := silentByteProgress()

	// One transfer: the bar is created once and reused.
	p.update(10, 100)
	p.update(50, 100)
	p.update(100, 100)
	if *bars != 1 {
		t.Errorf("bars created = %d, want 1", *bars)
	}

	// A different total means a new transfer started.
	p.update(5, 200)
	if *bars != 2 {
		t.Errorf("bars created = %d, want 2", *bars)
	}

	// Same total but written going backwards: also a new transfer.
	p.update(100, 200)
	p.update(3, 200)
	if *bars != 3 {
		t.Errorf("bars created = %d, want 3", *bars)
	}
}

func TestByteProgress_ConcurrentUpdates(t *testing.T) {
	p, _ := silentByteProgress()

	// Concurrent downloads drive the callback from several goroutines
	// at once; updates must not race on the shared bar state.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(total int64) {
			defer wg.Done()
			for written := int64(1); written <= 50; written++ {
				p.update(written, total)
			}
		}(int64(1000 + g))
	}
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		t.Fatal("no bar after updates")
	}
	if p.lastWritten < 1 || p.lastWritten > 50 {
		t.Errorf("lastWritten = %d, want a value one goroutine wrote", p.lastWritten)
	}
}
