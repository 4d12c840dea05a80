package server

import (
	"net/http"
	"strconv"
	"syscall"
	"time"

	"webnote/pkg/log"

	"github.com/labstack/echo/v4"
)

// Status reports service health: stored note volume, disk headroom under
// the save directory, and process uptime.
type Status struct {
	Version       string      `json:"version"`
	Notes         int         `json:"notes"`
	Uptime        string      `json:"uptime"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Storage       StorageInfo `json:"storage"`
}

// StorageInfo represents disk usage information for the save directory.
type StorageInfo struct {
	Total     uint64 `json:"total"`
	Used      uint64 `json:"used"`
	Available uint64 `json:"available"`
}

// getStatus handles the GET /status endpoint.
func (ns *NoteServer) getStatus(ctx echo.Context) error {
	count, err := ns.store.Count()
	if err != nil {
		log.Error().Err(err).Msg("Failed to count notes")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to collect status",
		})
	}

	storage, err := getStorageInfo(ns.saveDir)
	if err != nil {
		log.Error().Err(err).Str("save_dir", ns.saveDir).Msg("Failed to stat save directory")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to collect status",
		})
	}

	uptime := int64(time.Since(ns.startedAt).Seconds())

	return ctx.JSON(http.StatusOK, &Status{
		Version:       ns.version,
		Notes:         count,
		Uptime:        formatUptime(uptime),
		UptimeSeconds: uptime,
		Storage:       *storage,
	})
}

// getStorageInfo gets disk usage information for the specified directory.
func getStorageInfo(path string) (*StorageInfo, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil, err
	}

	// Convert syscall values to uint64 safely
	blockSize := uint64(stat.Bsize) // #nosec G115 - syscall values are system dependent

	total := stat.Blocks * blockSize
	available := stat.Bavail * blockSize
	used := total - available

	return &StorageInfo{
		Total:     total,
		Used:      used,
		Available: available,
	}, nil
}

// formatUptime converts seconds to human-readable format.
func formatUptime(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	const hoursInDay = 24
	const minutesInHour = 60
	days := int(duration.Hours()) / hoursInDay
	hours := int(duration.Hours()) % hoursInDay
	minutes := int(duration.Minutes()) % minutesInHour

	switch {
	case days > 0:
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	default:
		return strconv.Itoa(minutes) + "m"
	}
}
