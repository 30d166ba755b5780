package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileSink appends events to a JSON-lines file, one event per line.
//
// Honoring the Sink contract, every I/O failure is logged and swallowed;
// a full disk costs journal lines, never an acquisition.
type FileSink struct {
	path string
	log  *zap.Logger

	mu   sync.Mutex
	file *os.File
}

// NewFileSink creates a sink appending to the file at path. The file and
// its directory are created lazily on first record.
func NewFileSink(path string, log *zap.Logger) *FileSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSink{path: path, log: log}
}

// Record appends the event as one JSON line.
func (s *FileSink) Record(event Event) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			s.log.Warn("journal directory create failed", zap.String("path", s.path), zap.Error(err))
			return
		}
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			s.log.Warn("journal open failed", zap.String("path", s.path), zap.Error(err))
			return
		}
		s.file = f
	}

	line, err := json.Marshal(event)
	if err != nil {
		s.log.Warn("journal encode failed", zap.Error(err))
		return
	}
	line = append(line, '\n')
	if _, err := s.file.Write(line); err != nil {
		s.log.Warn("journal write failed", zap.String("path", s.path), zap.Error(err))
	}
}

// Close releases the underlying file. Subsequent records reopen it.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

var _ Sink = (*FileSink)(nil)
