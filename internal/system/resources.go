package system

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceReport is a snapshot of host and process resources, printed after
// a sampling run.
type ResourceReport struct {
	LogicalCPUs     int     `json:"logicalCpus"`
	TotalMemory     uint64  `json:"totalMemory"`
	AvailableMemory uint64  `json:"availableMemory"`
	UsedPercent     float64 `json:"usedPercent"`
	ProcessRSS      uint64  `json:"processRss"`
	Goroutines      int     `json:"goroutines"`
}

// CollectResources queries the host. Process RSS is best effort and left
// at zero when the platform does not expose it.
func CollectResources(ctx context.Context) (*ResourceReport, error) {
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("count cpus: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}

	r := &ResourceReport{
		LogicalCPUs:     cpus,
		TotalMemory:     vm.Total,
		AvailableMemory: vm.Available,
		UsedPercent:     vm.UsedPercent,
		Goroutines:      runtime.NumGoroutine(),
	}

	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
			r.ProcessRSS = mi.RSS
		}
	}
	return r, nil
}

// Workers caps requested at the number of logical CPUs. Zero or negative
// means one worker per CPU.
func (r *ResourceReport) Workers(requested int) int {
	if requested <= 0 || requested > r.LogicalCPUs {
		return max(r.LogicalCPUs, 1)
	}
	return requested
}

func (r *ResourceReport) String() string {
	return fmt.Sprintf("cpus=%d mem=%s/%s (%.1f%% used) rss=%s goroutines=%d",
		r.LogicalCPUs, humanBytes(r.AvailableMemory), humanBytes(r.TotalMemory),
		r.UsedPercent, humanBytes(r.ProcessRSS), r.Goroutines)
}

func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
