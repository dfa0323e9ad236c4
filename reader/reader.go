// Package reader ingests raw event logs from disk: JSON array files, JSONL
// files, logs-by-session JSON maps, and directories of per-session JSONL
// files. Malformed lines are skipped with a logged diagnostic so one bad
// event cannot poison a session.
package reader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sonnes/lekhak/core"
)

// maxLineSize is the maximum JSONL line size (1 MB). A single insert event
// can carry a full document paste.
const maxLineSize = 1 << 20

// ReadEvents parses one session's event log. A .jsonl file is scanned line
// by line; anything else is sniffed: a top-level JSON array is decoded
// whole, everything else is treated as JSONL.
func ReadEvents(path string) ([]core.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".jsonl") {
		return scanEvents(f, path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []core.RawEvent
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("parse log file: %w", err)
		}
		return events, nil
	}
	return scanEvents(bytes.NewReader(trimmed), path)
}

func scanEvents(r io.Reader, path string) ([]core.RawEvent, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []core.RawEvent
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e core.RawEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Warn("skipping malformed event", "file", path, "line", line, "err", err)
			continue
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}
	return events, nil
}

// ReadSessions parses a logs-by-session JSON file: an object mapping session
// IDs to event arrays.
func ReadSessions(path string) (map[string][]core.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sessions file: %w", err)
	}
	var sessions map[string][]core.RawEvent
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("parse sessions file: %w", err)
	}
	return sessions, nil
}

// ReadSessionDir reads a directory of <session-id>.jsonl files. Files that
// fail to open are skipped with a diagnostic.
func ReadSessionDir(dir string) (map[string][]core.RawEvent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	sessions := make(map[string][]core.RawEvent)
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		events, err := ReadEvents(path)
		if err != nil {
			log.Warn("skipping unreadable session log", "file", path, "err", err)
			continue
		}
		sessions[strings.TrimSuffix(de.Name(), ".jsonl")] = events
	}
	return sessions, nil
}

// Load resolves a path into logs by session: a directory becomes one session
// per JSONL file, a JSON object becomes a session map, and any other file is
// a single session keyed by its base name.
func Load(path string) (map[string][]core.RawEvent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat log path: %w", err)
	}
	if info.IsDir() {
		return ReadSessionDir(path)
	}

	if !strings.HasSuffix(path, ".jsonl") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			return ReadSessions(path)
		}
	}

	events, err := ReadEvents(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return map[string][]core.RawEvent{name: events}, nil
}
