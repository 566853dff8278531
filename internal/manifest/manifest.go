// Package manifest computes the config hash and writes/reads
// run_manifest.json, the artifact that makes a run's provenance
// reconstructible: which config produced it, and when/where it ran.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/agentgamelab/pdbench/internal/fileutil"
	"github.com/coder/quartz"
)

// Environment captures the runtime environment a run executed under.
type Environment struct {
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	TimestampUTC string `json:"timestamp_utc"`
}

// Manifest is the full contents of run_manifest.json.
type Manifest struct {
	RunID          string          `json:"run_id"`
	ConfigHash     string          `json:"config_hash"`
	ConfigSnapshot json.RawMessage `json:"config_snapshot"`
	Environment    Environment     `json:"environment"`
}

// ComputeConfigHash returns a stable, order-independent hash of config: the
// first 16 hex characters of the SHA-256 of config's canonical
// (sorted-key) JSON encoding.
func ComputeConfigHash(config interface{}) (string, error) {
	canonical, err := canonicalJSON(config)
	if err != nil {
		return "", fmt.Errorf("manifest: canonicalize config: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])[:16], nil
}

// canonicalJSON re-encodes config through a generic map so object keys sort
// deterministically, matching json.dumps(..., sort_keys=True) in the
// original implementation.
func canonicalJSON(config interface{}) ([]byte, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return marshalSorted(generic)
}

func marshalSorted(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			keyJSON, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, keyJSON...)
			buf = append(buf, ':')
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, valJSON...)
		}
		buf = append(buf, '}')
		return buf, nil

	case []interface{}:
		buf := []byte{'['}
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, itemJSON...)
		}
		buf = append(buf, ']')
		return buf, nil

	default:
		return json.Marshal(val)
	}
}

// Write computes the config hash and writes run_manifest.json into
// outputDir, creating the directory if necessary. Returns the manifest so
// the caller can log or inspect it further.
func Write(outputDir, runID string, config interface{}, clock quartz.Clock) (*Manifest, error) {
	if clock == nil {
		clock = quartz.NewReal()
	}
	hash, err := ComputeConfigHash(config)
	if err != nil {
		return nil, err
	}
	snapshot, err := canonicalJSON(config)
	if err != nil {
		return nil, fmt.Errorf("manifest: snapshot config: %w", err)
	}

	m := &Manifest{
		RunID:          runID,
		ConfigHash:     hash,
		ConfigSnapshot: snapshot,
		Environment: Environment{
			GoVersion:    runtime.Version(),
			Platform:     runtime.GOOS + "/" + runtime.GOARCH,
			TimestampUTC: clock.Now().UTC().Format(time.RFC3339),
		},
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("manifest: create output dir %s: %w", outputDir, err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("manifest: marshal manifest: %w", err)
	}
	path := filepath.Join(outputDir, "run_manifest.json")
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return m, nil
}

// Load reads and decodes run_manifest.json from outputDir.
func Load(outputDir string) (*Manifest, error) {
	path := filepath.Join(outputDir, "run_manifest.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	return &m, nil
}
