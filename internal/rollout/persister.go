package rollout

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Persister appends Items to a conversation's rollout file and exposes the
// path it is writing to.
type Persister interface {
	RecordItems(items []Item) error
	Flush() error
	Shutdown() error
	GetRolloutPath() string
}

// FilePersister is the default append-only, file-backed Persister. One
// instance owns exactly one file for the lifetime of a conversation.
type FilePersister struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	writer   *bufio.Writer
	shutdown bool
}

// RolloutDir is the conventional root under which per-conversation files
// live, named by conversation id.
func RolloutDir(codexHome string) string {
	return filepath.Join(codexHome, "sessions")
}

// RolloutFileName builds the UTC-timestamped file name Codex uses for one
// conversation, mirroring the subagent transcript naming convention.
func RolloutFileName(conversationID string, startedAt time.Time) string {
	return fmt.Sprintf("rollout-%s-%s.jsonl", startedAt.UTC().Format("20060102T150405Z"), conversationID)
}

// NewFilePersister opens (creating parent directories as needed) the file
// at path for append and returns a Persister bound to it.
func NewFilePersister(path string) (*FilePersister, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("rollout: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("rollout: open file: %w", err)
	}
	return &FilePersister{path: path, file: f, writer: bufio.NewWriter(f)}, nil
}

// RecordItems appends each item as one JSON line. Partial writes within a
// batch are not rolled back — a failure mid-batch leaves the file with the
// items written so far, matching append-only semantics.
func (p *FilePersister) RecordItems(items []Item) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return fmt.Errorf("rollout: persister for %s already shut down", p.path)
	}

	for _, item := range items {
		encoded, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("rollout: encode item: %w", err)
		}
		if _, err := p.writer.Write(encoded); err != nil {
			return fmt.Errorf("rollout: write item: %w", err)
		}
		if err := p.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("rollout: write newline: %w", err)
		}
	}
	return nil
}

// Flush pushes buffered writes to disk without closing the file.
func (p *FilePersister) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked()
}

func (p *FilePersister) flushLocked() error {
	if err := p.writer.Flush(); err != nil {
		return fmt.Errorf("rollout: flush: %w", err)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("rollout: sync: %w", err)
	}
	return nil
}

// Shutdown flushes and closes the file. Callers must await Shutdown before
// reading the file back, to guarantee no writes remain pending.
func (p *FilePersister) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown {
		return nil
	}
	if err := p.flushLocked(); err != nil {
		return err
	}
	p.shutdown = true
	return p.file.Close()
}

// GetRolloutPath returns the file path this persister writes to.
func (p *FilePersister) GetRolloutPath() string {
	return p.path
}
