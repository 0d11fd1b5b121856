package storage

import (
	"log/slog"
	"os"
	"path/filepath"
)

// dataDirCandidates are the persistent volume mount points probed, in order,
// when resolving where the ledger database should live on a managed platform.
var dataDirCandidates = []string{
	"/var/lib/data",
	"/data",
	"/app/data",
}

// ResolveDataPath selects a database path. Candidate persistent directories
// are probed for writability in order; the first writable one wins. If none
// is available /tmp is used (ephemeral, logged as a warning), and as a final
// fallback the provided local default.
func ResolveDataPath(defaultPath string, logger *slog.Logger) string {
	return resolveDataPathWithProber(defaultPath, logger, probeWritable)
}

func resolveDataPathWithProber(defaultPath string, logger *slog.Logger, writable func(dir string) bool) string {
	const dbFile = "issues.db"

	for _, dir := range dataDirCandidates {
		if !writable(dir) {
			continue
		}
		path := filepath.Join(dir, dbFile)
		logger.Info("using persistent storage", "path", path)
		return path
	}

	if writable("/tmp") {
		logger.Warn("using ephemeral storage /tmp - ledger will be lost on restart", "path", "/tmp/"+dbFile)
		return filepath.Join("/tmp", dbFile)
	}

	logger.Warn("using local database path", "path", defaultPath)
	return defaultPath
}

// probeWritable reports whether dir exists and accepts file creation.
func probeWritable(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	_ = f.Close()
	_ = os.Remove(probe)
	return true
}
