package main

import (
	"runtime"
	"sync"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
)

type ProfilerStats struct {
	PeakGoroutines int
	PeakMemoryMB   uint64
}

// MemoryMonitor samples goroutine count and heap size while the worker runs.
type MemoryMonitor struct {
	mu    sync.Mutex
	stats ProfilerStats
	stop  chan struct{}
	done  chan struct{}
}

func NewMonitor() *MemoryMonitor {
	return &MemoryMonitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (m *MemoryMonitor) Start(interval time.Duration, appLogger *logger.Logger) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sample(appLogger)
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *MemoryMonitor) sample(appLogger *logger.Logger) {
	const component = "Monitor"

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	goroutines := runtime.NumGoroutine()
	memoryMB := memStats.Alloc / 1024 / 1024

	m.mu.Lock()
	defer m.mu.Unlock()

	if goroutines > m.stats.PeakGoroutines {
		m.stats.PeakGoroutines = goroutines
	}
	if memoryMB > m.stats.PeakMemoryMB {
		m.stats.PeakMemoryMB = memoryMB
	}

	appLogger.Debug(component, "goroutines=%d memoryMB=%d peakGoroutines=%d peakMemoryMB=%d", goroutines, memoryMB, m.stats.PeakGoroutines, m.stats.PeakMemoryMB)
}

// Stop ends sampling and returns the peaks seen.
func (m *MemoryMonitor) Stop() ProfilerStats {
	close(m.stop)
	<-m.done
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
