package idhash

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"calcforge/internal/domain"
	"calcforge/internal/roi"
)

// FingerprintVersion is bumped whenever engine math changes,
// so cached results from older builds stop matching.
const FingerprintVersion = "v1"

// ComputeFingerprint computes a deterministic calculation fingerprint.
// Formula: SHA256(version|inputs_json|config_json)
// Returns base58-encoded hash.
func ComputeFingerprint(in domain.DealInputs, cfg roi.Config) (string, error) {
	inputsJSON, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal inputs: %w", err)
	}
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	data := fmt.Sprintf("%s|%s|%s", FingerprintVersion, inputsJSON, configJSON)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:]), nil
}
