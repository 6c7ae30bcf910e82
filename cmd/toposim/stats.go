package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	logs "github.com/danmuck/smplog"
	"github.com/shirou/gopsutil/process"

	"github.com/nikitakosatka/toposim/pkg/toposim"
)

type processStats struct {
	PID          int
	CPUPercent   float64
	RSSBytes     uint64
	NumGoroutine int
}

func collectProcessStats() (processStats, error) {
	pid := os.Getpid()
	stats := processStats{PID: pid, NumGoroutine: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return stats, err
	}
	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return stats, err
	}
	memory, err := proc.MemoryInfo()
	if err != nil {
		return stats, err
	}

	stats.CPUPercent = cpuPercent
	stats.RSSBytes = memory.RSS
	return stats, nil
}

// report prints the final status of every node and the process resources.
func report(nodes []*toposim.Node) {
	logs.Titlef("\nNode Stats\n")
	var total int64
	for _, node := range nodes {
		status := node.Status()
		total += status.ProcessedMessages
		logs.Dataf("%-20s state=%-8s processed=%-4d queue=%-4d last update=%s\n",
			status.NodeID,
			status.State,
			status.ProcessedMessages,
			status.QueueSize,
			status.LastUpdateTime.Format(time.TimeOnly),
		)
	}
	logs.DataKV("Processed in total", strconv.FormatInt(total, 10))

	stats, err := collectProcessStats()
	if err != nil {
		logs.Warnf("process stats unavailable: %v", err)
		return
	}
	logs.Titlef("\nProcess\n")
	logs.DataKV("PID", strconv.Itoa(stats.PID))
	logs.DataKV("CPU", fmt.Sprintf("%.1f%%", stats.CPUPercent))
	logs.DataKV("RSS", formatBytes(stats.RSSBytes))
	logs.DataKV("Goroutines", strconv.Itoa(stats.NumGoroutine))
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
