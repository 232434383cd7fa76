package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Read returns at most maxLines from the end of the file at path.
// A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	for i := 0; i < count; i++ {
		lines[i] = ring[(idx-count+i+maxLines)%maxLines]
	}
	return lines, nil
}

// Entry is one structured activity log line.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Action  string
	Error   string
}

// Entries returns the last maxEntries structured lines of the log at path.
// Lines that are not JSON objects are skipped.
func Entries(path string, maxEntries int) ([]Entry, error) {
	lines, err := Read(path, maxEntries)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entry, ok := Parse(line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Parse decodes a single zerolog JSON line.
func Parse(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !gjson.Valid(line) {
		return Entry{}, false
	}
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return Entry{}, false
	}
	fields := gjson.GetMany(line, "time", "level", "message", "action", "error")
	entry := Entry{
		Level:   fields[1].String(),
		Message: fields[2].String(),
		Action:  fields[3].String(),
		Error:   fields[4].String(),
	}
	if ts := fields[0].String(); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Time = t
		}
	}
	return entry, true
}
