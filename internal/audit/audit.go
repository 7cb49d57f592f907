// Package audit appends structured text lines to one of three named
// category files. Appends to the same category serialize behind a
// per-category lock while distinct categories proceed concurrently.
//
// The sink is strictly fire-and-forget: a failed append is counted and
// logged, never surfaced to the caller. A broken disk must not turn a
// successful API request into a failed one.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cris6h16/notes-api/internal/http/metrics"
)

type Category string

const (
	// CategorySuccess records operations that completed.
	CategorySuccess Category = "success"
	// CategoryFailure records expected, user-facing failures (denials,
	// conflicts, validation rejections).
	CategoryFailure Category = "failure"
	// CategoryHidden records unexpected failures whose detail is kept
	// out of API responses.
	CategoryHidden Category = "hidden"
)

type FileSink struct {
	dir   string
	log   zerolog.Logger
	locks map[Category]*sync.Mutex
}

func NewFileSink(dir string, log zerolog.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audit: create dir %s: %w", dir, err)
	}

	return &FileSink{
		dir: dir,
		log: log,
		locks: map[Category]*sync.Mutex{
			CategorySuccess: {},
			CategoryFailure: {},
			CategoryHidden:  {},
		},
	}, nil
}

func (s *FileSink) Success(format string, args ...any) {
	s.append(CategorySuccess, format, args...)
}

func (s *FileSink) Failure(format string, args ...any) {
	s.append(CategoryFailure, format, args...)
}

func (s *FileSink) Hidden(format string, args ...any) {
	s.append(CategoryHidden, format, args...)
}

func (s *FileSink) append(cat Category, format string, args ...any) {
	line := fmt.Sprintf("%s %s %s\n",
		time.Now().UTC().Format(time.RFC3339Nano),
		uuid.NewString(),
		fmt.Sprintf(format, args...),
	)

	mu := s.locks[cat]
	mu.Lock()
	defer mu.Unlock()

	if err := s.write(cat, line); err != nil {
		metrics.AuditDropsTotal.WithLabelValues(string(cat)).Inc()
		s.log.Error().Err(err).Str("category", string(cat)).Msg("audit append dropped")
	}
}

func (s *FileSink) write(cat Category, line string) error {
	path := filepath.Join(s.dir, string(cat)+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}
