// Package accesslog stores access log entries as JSON lines on disk.
// Full files are rotated into zstd archives next to the live file.
package accesslog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockscope/internal/domain/accesslog"
	"stockscope/pkg/logger"
)

const rotatedLayout = "20060102T150405.000000000"

// FileSink implements accesslog.Sink. Append and ReadAll are serialized by
// a mutex; a single process owns the file.
type FileSink struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	now     func() time.Time

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// FileSinkConfig configures a FileSink. MaxSize <= 0 disables rotation.
type FileSinkConfig struct {
	Path    string
	MaxSize int64
	Now     func() time.Time
}

var (
	_ accesslog.Sink   = (*FileSink)(nil)
	_ accesslog.Pruner = (*FileSink)(nil)
)

// NewFileSink creates the directory of cfg.Path and returns a sink.
func NewFileSink(cfg FileSinkConfig) (*FileSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("access log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create access log dir: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &FileSink{
		path:    cfg.Path,
		maxSize: cfg.MaxSize,
		now:     now,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Append writes e as one JSON line, rotating first when the live file
// reached MaxSize.
func (s *FileSink) Append(ctx context.Context, e accesslog.Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode access log entry: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSize > 0 {
		if info, err := os.Stat(s.path); err == nil && info.Size() >= s.maxSize {
			if err := s.rotate(); err != nil {
				logger.Error(ctx, "rotate access log", "path", s.path, "error", err)
			}
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open access log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write access log: %w", err)
	}
	return nil
}

// rotate compresses the live file into <path>.<timestamp>.zst and
// truncates it. Called with s.mu held.
func (s *FileSink) rotate() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read live file: %w", err)
	}
	name := fmt.Sprintf("%s.%s.zst", s.path, s.now().UTC().Format(rotatedLayout))
	if err := os.WriteFile(name, s.encoder.EncodeAll(raw, nil), 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return os.Truncate(s.path, 0)
}

// ReadAll returns the entries of the rotated archives, oldest first,
// followed by the live file.
func (s *FileSink) ReadAll(ctx context.Context) ([]accesslog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rotated, err := s.rotatedFiles()
	if err != nil {
		return nil, err
	}

	var entries []accesslog.Entry
	for _, name := range rotated {
		compressed, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		raw, err := s.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", name, err)
		}
		if entries, err = decodeLines(ctx, bytes.NewReader(raw), entries); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	defer f.Close()

	return decodeLines(ctx, f, entries)
}

// rotatedFiles lists the archives of the live file sorted by timestamp.
func (s *FileSink) rotatedFiles() ([]string, error) {
	matches, err := filepath.Glob(s.path + ".*.zst")
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Prune removes the rotated archives created before the given time. The
// live file is never touched. Archives with a name that does not parse are
// kept.
func (s *FileSink) Prune(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rotated, err := s.rotatedFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range rotated {
		rotatedAt, ok := s.rotatedAt(name)
		if !ok {
			logger.Warn(ctx, "keep archive with unexpected name", "file", name)
			continue
		}
		if !rotatedAt.Before(before) {
			break
		}
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// rotatedAt parses the rotation time out of an archive name.
func (s *FileSink) rotatedAt(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, s.path+"."), ".zst")
	ts, err := time.Parse(rotatedLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// decodeLines appends every decodable line of r to entries. Corrupt lines
// are skipped with a warning.
func decodeLines(ctx context.Context, r io.Reader, entries []accesslog.Entry) ([]accesslog.Entry, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e accesslog.Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			logger.Warn(ctx, "skip corrupt access log line", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan access log: %w", err)
	}
	return entries, nil
}

// Close releases the compressor.
func (s *FileSink) Close() error {
	s.decoder.Close()
	return s.encoder.Close()
}
