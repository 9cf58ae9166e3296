package pools

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wax-dex-monitor/internal/domain"
)

// LoadResult reports what a snapshot directory scan produced.
type LoadResult struct {
	Snapshots []*domain.PoolSnapshot
	Skipped   int      // records that failed to decode
	BadFiles  []string // files that could not be read or parsed at all
}

// LoadSnapshotDir reads every pools_*.json file in dir and decodes its
// records. Each file holds a JSON array of pool snapshots. Undecodable
// records and unreadable files are skipped and counted; only a missing or
// unlistable directory is an error.
func LoadSnapshotDir(dir string) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, "pools_") && strings.HasSuffix(name, ".json") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	result := &LoadResult{}
	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			result.BadFiles = append(result.BadFiles, name)
			continue
		}

		// Decode record-by-record so one malformed entry does not discard
		// the rest of the file.
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			result.BadFiles = append(result.BadFiles, name)
			continue
		}

		for _, msg := range raw {
			var snap domain.PoolSnapshot
			if err := json.Unmarshal(msg, &snap); err != nil {
				result.Skipped++
				continue
			}
			result.Snapshots = append(result.Snapshots, &snap)
		}
	}

	return result, nil
}
