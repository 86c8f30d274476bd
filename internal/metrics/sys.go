package metrics

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// processStart anchors the uptime reading for the admin report.
var processStart = time.Now()

// SysHealth is a point-in-time snapshot of the bot process.
type SysHealth struct {
	AllocMB      uint64
	SysMB        uint64
	NumGC        uint32
	Goroutines   int
	Uptime       time.Duration
	DataDiskSize string
}

// GetSysHealth collects memory, goroutine, uptime and data-directory
// figures for the admin metrics report.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:      m.Alloc / 1024 / 1024,
		SysMB:        m.Sys / 1024 / 1024,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		Uptime:       time.Since(processStart).Round(time.Second),
		DataDiskSize: dataDirSize(dataPath),
	}
}

// dataDirSize sums the files under the data directory. Unreadable
// entries are skipped; the report is informational.
func dataDirSize(path string) string {
	var size uint64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if info, err := d.Info(); err == nil && !d.IsDir() {
			size += uint64(info.Size())
		}
		return nil
	})
	return humanize.Bytes(size)
}
