package timeseries

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// spillRetention caps how long undrained batches are kept. Batches older
// than this are discarded during drain.
const spillRetention = 72 * time.Hour

// spillQueue is an append-only file absorbing write batches during
// timeseries outages. Each record is one base64-encoded line protocol batch
// prefixed with its unix timestamp.
type spillQueue struct {
	mu   sync.Mutex
	path string
}

func newSpillQueue(path string) (*spillQueue, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "home-intel-spill.dat")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	return &spillQueue{path: path}, nil
}

func (q *spillQueue) Append(batch []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := os.OpenFile(q.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	record := fmt.Sprintf("%d %s\n", time.Now().UTC().Unix(), base64.StdEncoding.EncodeToString(batch))
	_, err = f.WriteString(record)

	return err
}

// Drain replays all stored batches through send in append order. Batches
// that fail remain queued; a batch past retention is dropped.
func (q *spillQueue) Drain(ctx context.Context, send func([]byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	f, err := os.Open(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var remaining bytes.Buffer
	cutoff := time.Now().UTC().Add(-spillRetention).Unix()
	var drainErr error

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var ts int64
		var payload string
		if _, err := fmt.Sscanf(line, "%d %s", &ts, &payload); err != nil {
			continue
		}

		if ts < cutoff {
			continue
		}

		batch, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			continue
		}

		if drainErr != nil {
			// preserve order: once one batch fails, keep the rest queued
			remaining.WriteString(line + "\n")
			continue
		}

		if err := send(batch); err != nil {
			drainErr = err
			remaining.WriteString(line + "\n")
		}
	}

	f.Close()

	if remaining.Len() == 0 {
		os.Remove(q.path)
	} else {
		os.WriteFile(q.path, remaining.Bytes(), 0o644)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return drainErr
}

func (q *spillQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	info, err := os.Stat(q.path)
	if err != nil {
		return true
	}

	return info.Size() == 0
}
