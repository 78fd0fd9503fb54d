package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/maplehacks/mlh-scrape/internal/event"
)

// Storage handles the existing-events file
type Storage struct {
	path string
}

// existingFile is the top-level shape of the file. Events stay raw so that
// fields written by other tools survive a rewrite.
type existingFile struct {
	Events []json.RawMessage `json:"events"`
}

// New creates a Storage for path
func New(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("existing file path is empty")
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	return &Storage{path: path}, nil
}

// Path returns the resolved file path
func (s *Storage) Path() string {
	return s.path
}

// LoadNames returns the normalized names of all events in the file.
// A missing file yields an empty set and no error.
func (s *Storage) LoadNames() (event.NameSet, error) {
	_, file, err := s.read()
	if err != nil {
		return event.NewNameSet(), err
	}
	return file.names(), nil
}

// names collects the string "name" of each entry. Entries without one are ignored.
func (f *existingFile) names() event.NameSet {
	names := event.NewNameSet()
	for _, raw := range f.Events {
		var entry struct {
			Name interface{} `json:"name"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if name, ok := entry.Name.(string); ok {
			names.Add(name)
		}
	}
	return names
}

// Append adds events to the file, skipping any whose name is already recorded,
// and returns how many were written. The file is replaced atomically.
func (s *Storage) Append(events []*event.Event) (int, error) {
	top, file, err := s.read()
	if err != nil {
		return 0, err
	}

	known := file.names()
	added := 0
	for _, evt := range events {
		if evt == nil || !known.Add(evt.Name) {
			continue
		}
		data, err := marshal(evt)
		if err != nil {
			return 0, fmt.Errorf("encoding event %q: %w", evt.Name, err)
		}
		file.Events = append(file.Events, data)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	if file.Events == nil {
		file.Events = []json.RawMessage{}
	}
	eventsJSON, err := marshal(file.Events)
	if err != nil {
		return 0, fmt.Errorf("encoding events: %w", err)
	}
	top["events"] = eventsJSON

	data, err := marshalIndent(top)
	if err != nil {
		return 0, fmt.Errorf("encoding existing file: %w", err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return 0, err
	}
	return added, nil
}

// read loads the file as both its raw top-level object and its events list.
// A missing file yields empty values.
func (s *Storage) read() (map[string]json.RawMessage, *existingFile, error) {
	top := make(map[string]json.RawMessage)
	file := &existingFile{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return top, file, nil
		}
		return top, file, fmt.Errorf("reading existing file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return top, file, nil
	}

	if err := json.Unmarshal(data, &top); err != nil {
		return make(map[string]json.RawMessage), file, fmt.Errorf("parsing existing file %s: %w", s.path, err)
	}
	// A literal null decodes to a nil map; treat it like an empty file
	if top == nil {
		top = make(map[string]json.RawMessage)
	}
	if raw, ok := top["events"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &file.Events); err != nil {
			return make(map[string]json.RawMessage), &existingFile{}, fmt.Errorf("parsing events in %s: %w", s.path, err)
		}
	}

	return top, file, nil
}

func marshal(v interface{}) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAtomic writes data to a temp file next to path and renames it into place
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".existing-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing existing file: %w", err)
	}
	return nil
}
