package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// ReplayResult reports one pass over a journal file. Entries with an event
// id already seen are counted as skipped, not re-applied.
type ReplayResult struct {
	Applied int
	Skipped int
}

// Replay scans a JSONL journal oldest-first and calls fn once per distinct
// event id. A missing journal file is an empty journal, not an error.
func Replay(path string, fn func(e Entry) error) (ReplayResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ReplayResult{}, nil
		}
		return ReplayResult{}, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	seen := make(map[string]bool)
	var res ReplayResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return res, fmt.Errorf("unmarshal line %d: %w", line, err)
		}
		if e.EventID != "" && seen[e.EventID] {
			res.Skipped++
			continue
		}
		seen[e.EventID] = true
		if err := fn(e); err != nil {
			return res, fmt.Errorf("apply line %d: %w", line, err)
		}
		res.Applied++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan journal: %w", err)
	}
	return res, nil
}

// Find returns the journal entry for the given event id. Duplicate appends
// of the same id are ignored, so the first occurrence wins. ok is false when
// the id never appears.
func Find(path string, eventID string) (Entry, bool, error) {
	var found Entry
	ok := false
	_, err := Replay(path, func(e Entry) error {
		if e.EventID == eventID {
			found = e
			ok = true
		}
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return found, ok, nil
}

// List returns all distinct journal entries oldest-first.
func List(path string) ([]Entry, error) {
	var out []Entry
	_, err := Replay(path, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}
