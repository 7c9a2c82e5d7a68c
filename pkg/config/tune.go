package config

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// assumed average serialized row size used to size write batches
	estimatedLineBytes = 256
	// share of available memory a single pending write batch may use
	writeBatchMemoryShare = 64

	minWriteBatchSize     = 1000
	maxWriteBatchSize     = 1_000_000
	defaultSplitBatchSize = 100000
)

// Host describes the resources AutoTune sized the configuration for.
type Host struct {
	LogicalCPUs    int
	AvailableBytes uint64
}

// AutoTune fills zero performance settings from the host. Settings that are
// already set are left alone. Probing failures fall back to the Go runtime's
// view of the machine and fixed batch sizes.
func AutoTune(cfg *Config) Host {
	host := Host{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		host.LogicalCPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		host.AvailableBytes = vm.Available
	}

	p := &cfg.Performance
	if p.Workers == 0 {
		p.Workers = host.LogicalCPUs
	}
	if p.ChunkSize == 0 {
		p.ChunkSize = 1000
	}
	if p.WriteBatchSize == 0 {
		p.WriteBatchSize = writeBatchSize(host.AvailableBytes)
	}
	if p.SplitBatchSize == 0 {
		p.SplitBatchSize = defaultSplitBatchSize
	}
	return host
}

func writeBatchSize(available uint64) int {
	if available == 0 {
		return minWriteBatchSize * 10
	}
	n := available / writeBatchMemoryShare / estimatedLineBytes
	switch {
	case n < minWriteBatchSize:
		return minWriteBatchSize
	case n > maxWriteBatchSize:
		return maxWriteBatchSize
	}
	return int(n)
}
