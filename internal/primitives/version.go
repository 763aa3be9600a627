package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ComputeVersion returns config.Version when set, otherwise a fingerprint
// of the definition: the first 8 bytes of the SHA-256 of its JSON form.
// Equal definitions always yield equal fingerprints.
func ComputeVersion(config *ChartConfig) string {
	if config.Version != "" {
		return config.Version
	}
	data, err := json.Marshal(config)
	if err != nil {
		return "unversioned"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
