package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"

	"github.com/talgya/echo-chamber/internal/engine"
)

// Archiver writes finished decision logs to compressed JSONL files, one
// file per cleared log.
type Archiver struct {
	dir    string
	now    func() time.Time
	create func(path string) (io.WriteCloser, error)

	mu  sync.Mutex
	seq int
}

// NewArchiver returns an archiver writing into dir.
func NewArchiver(dir string) *Archiver {
	return &Archiver{dir: dir, now: time.Now, create: createExclusive}
}

func createExclusive(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
}

// Archive writes log as one JSON object per line, zstd-compressed. An empty
// log writes nothing. A failed write leaves no file behind.
func (a *Archiver) Archive(log []engine.Decision) error {
	if len(log) == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	a.seq++
	path := filepath.Join(a.dir, fmt.Sprintf("decisions-%s-%03d.jsonl.zst",
		a.now().UTC().Format("20060102-150405"), a.seq))

	f, err := a.create(path)
	if err != nil {
		return err
	}
	cw := &countingWriter{w: f}
	err = writeLog(cw, log)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// A partial file would fail ReadArchive later.
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	slog.Info("decision log archived",
		"path", path,
		"decisions", len(log),
		"size", humanize.Bytes(uint64(cw.n)),
	)
	return nil
}

// writeLog zstd-encodes log into w as JSON lines.
func writeLog(w io.Writer, log []engine.Decision) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	for _, d := range log {
		b, err := json.Marshal(d)
		if err != nil {
			_ = enc.Close()
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// ReadArchive decodes one archive file.
func ReadArchive(path string) ([]engine.Decision, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []engine.Decision
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var d engine.Decision
		if err := json.Unmarshal(sc.Bytes(), &d); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, d)
	}
	return out, sc.Err()
}
