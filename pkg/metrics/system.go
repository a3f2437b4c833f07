package metrics

import (
	"context"
	"runtime"
	"time"
)

// StartSystemCollector samples runtime memory, goroutine and GC stats every
// refresh interval until ctx is done.
func StartSystemCollector(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(globalManager.refreshInterval)
		defer ticker.Stop()

		var lastNumGC uint32
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				lastNumGC = collectSystem(lastNumGC)
			}
		}
	}()
}

// collectSystem records one sample and returns the GC cycle count seen.
func collectSystem(lastNumGC uint32) uint32 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	UpdateSystemMemoryUsage(ms.HeapInuse)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// PauseNs is a ring buffer of the most recent 256 pauses.
	n := ms.NumGC - lastNumGC
	if n > uint32(len(ms.PauseNs)) {
		n = uint32(len(ms.PauseNs))
	}
	for i := uint32(0); i < n; i++ {
		idx := (ms.NumGC - i + 255) % 256
		RecordSystemGCPauseTime(float64(ms.PauseNs[idx]) / float64(time.Millisecond))
	}
	return ms.NumGC
}
