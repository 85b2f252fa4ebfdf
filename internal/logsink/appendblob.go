package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/appendblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// maxBlock stays under the 4 MiB append block limit.
const maxBlock = 4<<20 - 1024

type Config struct {
	AccountName string
	AccountKey  string
	Container   string
	BlobName    string        // e.g. "2026/10/19/host.jsonl"; defaults to a dated hostname blob
	FlushEvery  time.Duration // default 2s
	Level       slog.Leveler
}

func (c Config) Enabled() bool {
	return c.AccountName != "" && c.AccountKey != "" && c.Container != ""
}

type appendFunc func(ctx context.Context, block []byte) error

// Handler is an slog.Handler that batches JSON lines into an Azure append
// blob.
type Handler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	sink   *sink
}

type sink struct {
	appendBlock appendFunc
	ch          chan []byte
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	flushEvery  time.Duration
}

func New(ctx context.Context, cfg Config) (*Handler, error) {
	if !cfg.Enabled() {
		return nil, errors.New("AccountName, AccountKey and Container are required")
	}
	if cfg.BlobName == "" {
		host, _ := os.Hostname()
		now := time.Now().UTC()
		cfg.BlobName = FormatDateFolder(now.Year(), int(now.Month()), now.Day()) + "/" + host + ".jsonl"
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, err
	}
	// BlobName may include slashes so only the container is escaped.
	blobURL := "https://" + cfg.AccountName + ".blob.core.windows.net/" +
		url.PathEscape(cfg.Container) + "/" + cfg.BlobName

	ab, err := appendblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
	if err != nil {
		return nil, err
	}
	if _, err := ab.Create(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
		return nil, fmt.Errorf("failed to create log blob %s: %w", cfg.BlobName, err)
	}

	return newHandler(ctx, cfg, func(ctx context.Context, block []byte) error {
		_, err := ab.AppendBlock(ctx, streaming.NopCloser(bytes.NewReader(block)), nil)
		return err
	}), nil
}

func newHandler(ctx context.Context, cfg Config, fn appendFunc) *Handler {
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 2 * time.Second
	}
	level := cfg.Level
	if level == nil {
		level = slog.LevelInfo
	}
	// only Close stops the writer, so lines logged during shutdown still land
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &sink{
		appendBlock: fn,
		ch:          make(chan []byte, 1024),
		ctx:         ctx,
		cancel:      cancel,
		flushEvery:  cfg.FlushEvery,
	}
	s.wg.Add(1)
	go s.loop()
	return &Handler{level: level, sink: s}
}

// Close flushes buffered lines and stops the writer.
func (h *Handler) Close() error {
	h.sink.cancel()
	h.sink.wg.Wait()
	return nil
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line, err := encode(r, h.attrs, h.groups)
	if err != nil {
		return err
	}
	select {
	case h.sink.ch <- line:
		return nil
	case <-h.sink.ctx.Done():
		return h.sink.ctx.Err()
	}
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), qualify(attrs, h.groups)...)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(append([]string{}, h.groups...), name)
	return &h2
}

// qualify prefixes attribute keys with the open groups, dot separated.
func qualify(attrs []slog.Attr, groups []string) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	prefix := strings.Join(groups, ".") + "."
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	return out
}

// encode renders one JSON line. Group values nest one level.
func encode(r slog.Record, attrs []slog.Attr, groups []string) ([]byte, error) {
	ev := make(map[string]any, r.NumAttrs()+len(attrs)+3)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ev["ts"] = ts.UTC().Format(time.RFC3339Nano)
	ev["level"] = r.Level.String()
	ev["msg"] = r.Message

	add := func(a slog.Attr) {
		a.Value = a.Value.Resolve()
		if a.Key == "" {
			return
		}
		if a.Value.Kind() == slog.KindGroup {
			m := map[string]any{}
			for _, aa := range a.Value.Group() {
				m[aa.Key] = value(aa.Value.Resolve())
			}
			ev[a.Key] = m
			return
		}
		ev[a.Key] = value(a.Value)
	}
	for _, a := range attrs {
		add(a)
	}
	var recordAttrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		recordAttrs = append(recordAttrs, a)
		return true
	})
	for _, a := range qualify(recordAttrs, groups) {
		add(a)
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func value(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	}
	if err, ok := v.Any().(error); ok {
		return err.Error()
	}
	return v.Any()
}

func (s *sink) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushEvery)
	defer ticker.Stop()

	var buf []byte
	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}
		if err := s.appendBlock(ctx, buf); err != nil {
			// the default logger may be this handler
			fmt.Fprintf(os.Stderr, "logsink: append failed, dropping %d bytes: %v\n", len(buf), err)
		}
		buf = buf[:0]
	}

	for {
		select {
		case <-s.ctx.Done():
			ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 5*time.Second)
		drain:
			for {
				select {
				case line := <-s.ch:
					if len(buf)+len(line) > maxBlock {
						flush(ctx)
					}
					buf = append(buf, line...)
				default:
					break drain
				}
			}
			flush(ctx)
			cancel()
			return
		case line := <-s.ch:
			if len(buf)+len(line) > maxBlock {
				flush(s.ctx)
			}
			buf = append(buf, line...)
		case <-ticker.C:
			flush(s.ctx)
		}
	}
}
