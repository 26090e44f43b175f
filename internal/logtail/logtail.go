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

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
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
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one structured record from the locus log.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	Attrs     []Attr
	Raw       string
}

// Attr is a key/value pair attached to an entry beyond the standard fields.
type Attr struct {
	Key   string
	Value string
}

var reservedKeys = map[string]bool{
	"time":      true,
	"level":     true,
	"msg":       true,
	"component": true,
}

// ParseEntry decodes a JSON log line. Lines that are not JSON objects are
// returned as INFO entries carrying the raw text as the message.
func ParseEntry(line string) Entry {
	trimmed := strings.TrimSpace(line)
	entry := Entry{Raw: line}
	if !strings.HasPrefix(trimmed, "{") || !gjson.Valid(trimmed) {
		entry.Level = "INFO"
		entry.Message = trimmed
		return entry
	}

	parsed := gjson.Parse(trimmed)
	if ts := parsed.Get("time"); ts.Exists() {
		if t, err := time.Parse(time.RFC3339Nano, ts.String()); err == nil {
			entry.Time = t
		}
	}
	entry.Level = strings.ToUpper(parsed.Get("level").String())
	if entry.Level == "" {
		entry.Level = "INFO"
	}
	entry.Message = parsed.Get("msg").String()
	entry.Component = parsed.Get("component").String()

	parsed.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if reservedKeys[k] {
			return true
		}
		entry.Attrs = append(entry.Attrs, Attr{Key: k, Value: value.String()})
		return true
	})
	return entry
}

// ReadEntries reads the tail of a JSON log and parses each line.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, ParseEntry(line))
	}
	return entries, nil
}

// FilterLevel keeps entries at or above the given level. Unknown levels keep
// everything.
func FilterLevel(entries []Entry, min string) []Entry {
	floor, ok := levelRank[strings.ToUpper(strings.TrimSpace(min))]
	if !ok {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		rank, known := levelRank[e.Level]
		if !known || rank >= floor {
			out = append(out, e)
		}
	}
	return out
}

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}
