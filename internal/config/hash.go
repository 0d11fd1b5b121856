package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
)

// Fingerprint computes a short BLAKE3 digest of the config file, logged at
// startup so a deployment's effective configuration can be matched against
// the file that produced it.
func Fingerprint(configPath string) (string, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:8]), nil
}
