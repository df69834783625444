package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"lifegrid/internal/sims/survival"
)

// Record is one tick as written to the tick log and the index.
type Record struct {
	Tick         int `json:"tick"`
	Living       int `json:"living"`
	Dead         int `json:"dead"`
	OldestLiving int `json:"oldest_living"`
	Births       int `json:"births"`
	Deaths       int `json:"deaths"`
	Consumed     int `json:"consumed"`
}

// RecordFromStats converts the world's tick aggregate.
func RecordFromStats(s survival.Stats) Record {
	return Record{
		Tick:         s.Tick,
		Living:       s.Living,
		Dead:         s.Dead,
		OldestLiving: s.OldestLiving,
		Births:       s.Births,
		Deaths:       s.Deaths,
		Consumed:     s.Consumed,
	}
}

// TickLog writes one zstd-compressed JSON line per tick.
type TickLog struct {
	path string
	log  *slog.Logger

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// TickLogPath returns the log file used for a run with the given seed.
func TickLogPath(dir string, seed int64) string {
	return filepath.Join(dir, fmt.Sprintf("ticks-%d.jsonl.zst", seed))
}

// OpenTickLog creates (or truncates) the tick log for seed inside dir.
func OpenTickLog(dir string, seed int64, logger *slog.Logger) (*TickLog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := TickLogPath(dir, seed)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &TickLog{
		path: path,
		log:  logger,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path returns the file being written.
func (l *TickLog) Path() string { return l.path }

// Write appends one record.
func (l *TickLog) Write(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return fmt.Errorf("tick log %s is closed", l.path)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// ReportPopulation is a no-op; the full record arrives through ObserveTick.
func (l *TickLog) ReportPopulation(int, int) {}

// RecordOldestLiving is a no-op; the full record arrives through ObserveTick.
func (l *TickLog) RecordOldestLiving(int) {}

// ObserveTick writes the tick. Failures are logged and kept for Err so a
// full disk never stops the simulation.
func (l *TickLog) ObserveTick(s survival.Stats) {
	if err := l.Write(RecordFromStats(s)); err != nil {
		l.mu.Lock()
		first := l.err == nil
		if first {
			l.err = err
		}
		l.mu.Unlock()
		if first {
			l.log.Error("tick log write failed", "path", l.path, "tick", s.Tick, "err", err)
		}
	}
}

// Err returns the first write error, if any.
func (l *TickLog) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes and closes the log.
func (l *TickLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var err1, err2 error
	if l.w != nil {
		err1 = l.w.Flush()
		l.w = nil
	}
	if l.enc != nil {
		if err := l.enc.Close(); err1 == nil {
			err1 = err
		}
		l.enc = nil
	}
	if l.f != nil {
		err2 = l.f.Close()
		l.f = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// ReadTickLog decodes every record from a compressed tick log stream.
func ReadTickLog(r io.Reader) ([]Record, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Record
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return out, fmt.Errorf("tick log line %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}

// ReadTickLogFile is ReadTickLog for a path.
func ReadTickLogFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTickLog(f)
}
