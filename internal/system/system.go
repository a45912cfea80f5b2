package system

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"frameweave/internal/logging"
)

// InitResourceLimits raises the open-file limit. Long image-sequence exports
// touch thousands of frame files.
func InitResourceLimits(logf logging.Func) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logf.Warnf("could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logf.Warnf("could not raise file limit: %v", err)
	} else {
		logf.Infof("open file limit raised to %d", rLimit.Cur)
	}
}

// BestH264Encoder probes ffmpeg for hardware H.264 encoders, preferring
// VideoToolbox, then NVENC, then software x264.
func BestH264Encoder() string {
	encoders := []string{"h264_videotoolbox", "h264_nvenc"}

	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range encoders {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// Snapshot is a point-in-time host resource reading for export stats.
type Snapshot struct {
	CPUCount   int
	CPUPercent float64
	MemUsedMB  uint64
	MemTotalMB uint64
	MemPercent float64
}

// TakeSnapshot reads CPU and memory state. Failures degrade to zero values;
// stats reporting is best effort.
func TakeSnapshot() Snapshot {
	var s Snapshot

	if counts, err := cpu.Counts(true); err == nil {
		s.CPUCount = counts
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsedMB = vm.Used / 1024 / 1024
		s.MemTotalMB = vm.Total / 1024 / 1024
		s.MemPercent = vm.UsedPercent
	}
	return s
}

func (s Snapshot) String() string {
	return fmt.Sprintf("cpu %d cores (%.1f%%), mem %d/%d MB (%.1f%%)",
		s.CPUCount, s.CPUPercent, s.MemUsedMB, s.MemTotalMB, s.MemPercent)
}
