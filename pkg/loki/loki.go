// Package loki ships log lines to a Grafana Loki push endpoint in gzip'd JSON
// batches.
package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// URL of the push API, e.g. http://loki:3100/loki/api/v1/push
	URL string `validate:"required,url"`

	// Labels are attached to every stream. The entry level is added as "level".
	Labels map[string]string

	// Username and Password enable basic auth when both are set.
	Username string
	Password string

	// TenantID is sent as X-Scope-OrgID on multi-tenant installations.
	TenantID string

	BatchSize     int           `validate:"gte=1"`
	FlushInterval time.Duration `validate:"gt=0"`
	// BufferSize bounds how many entries may wait for the shipper goroutine.
	BufferSize int `validate:"gte=1"`
}

func (cfg *Config) setDefaults() {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 4 * cfg.BatchSize
	}
}

type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]any
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Shipper batches entries in the background. Ship never blocks: when the buffer
// is full the entry is dropped and counted. After Close every entry is dropped.
type Shipper struct {
	config  Config
	client  *http.Client
	entries chan Entry
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	onError func(error)
}

func NewShipper(cfg Config, onError func(error)) (*Shipper, error) {
	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	if onError == nil {
		onError = func(error) {}
	}

	s := &Shipper{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		entries: make(chan Entry, cfg.BufferSize),
		done:    make(chan struct{}),
		onError: onError,
	}
	go s.run()
	return s, nil
}

func (s *Shipper) Ship(e Entry) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return false
	}

	select {
	case s.entries <- e:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

func (s *Shipper) Dropped() int64 {
	return s.dropped.Load()
}

// Close flushes what is buffered and stops the shipper. It gives up when ctx ends.
func (s *Shipper) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shipper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, s.config.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.send(batch); err != nil {
			s.onError(err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-s.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// encode groups the batch into one stream per level.
func (s *Shipper) encode(batch []Entry) (*bytes.Buffer, error) {
	byLevel := make(map[string]*stream)
	var order []string
	for _, entry := range batch {
		st, ok := byLevel[entry.Level]
		if !ok {
			labels := maps.Clone(s.config.Labels)
			if labels == nil {
				labels = map[string]string{}
			}
			labels["level"] = entry.Level
			st = &stream{Stream: labels}
			byLevel[entry.Level] = st
			order = append(order, entry.Level)
		}

		line := make(map[string]any, len(entry.Fields)+1)
		maps.Copy(line, entry.Fields)
		line["msg"] = entry.Message
		encoded, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		st.Values = append(st.Values, [2]string{strconv.FormatInt(entry.Time.UnixNano(), 10), string(encoded)})
	}

	request := pushRequest{Streams: make([]stream, 0, len(order))}
	for _, level := range order {
		request.Streams = append(request.Streams, *byLevel[level])
	}

	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)
	if err := json.NewEncoder(gz).Encode(request); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Shipper) send(batch []Entry) error {
	body, err := s.encode(batch)
	if err != nil {
		return fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.URL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if s.config.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", s.config.TenantID)
	}
	if s.config.Username != "" && s.config.Password != "" {
		req.SetBasicAuth(s.config.Username, s.config.Password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected response from loki: %s, body: %s", resp.Status, string(respBody))
	}
	return nil
}
