package observability

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is a sample of the current process taken with gopsutil.
type ProcessStats struct {
	PID        int32   `json:"pid"`
	RSSMb      uint64  `json:"rss_mb"`
	CPUPercent float64 `json:"cpu_percent"`
	Threads    int32   `json:"threads"`
}

func SampleProcess() (ProcessStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}
	stats := ProcessStats{PID: p.Pid}
	mem, err := p.MemoryInfo()
	if err != nil {
		return stats, err
	}
	stats.RSSMb = mem.RSS / 1024 / 1024
	if stats.CPUPercent, err = p.CPUPercent(); err != nil {
		return stats, err
	}
	if stats.Threads, err = p.NumThreads(); err != nil {
		return stats, err
	}
	return stats, nil
}
