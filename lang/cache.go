package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores parsed programs keyed by (source hash ^ options hash).
// Programs are immutable after parsing, so one instance is shared by
// every caller.
var programCache sync.Map

// state tracks the single parse of one cache key.
type state struct {
	prog *Program
	err  error
	once sync.Once
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(opts)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader parses a program from r. Identical source parsed with
// identical options is served from a process-wide cache.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Wrap reader with async read-ahead so large scripts are fetched
	// while earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseCached(ctx, string(data), opts...)
}

// ParseCached parses src like [Parse], sharing the result with every
// other call for the same source and parse options.
func ParseCached(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	sourceHash := xxh3.Hash([]byte(src))
	optsHash := hashOptions(cfg.opts)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := programCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.prog, entry.err = Parse(ctx, src, opts...)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	// Share the parsed tree but honor this caller's run options.
	prog := *entry.prog
	prog.cfg = cfg

	return &prog, nil
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	programCache.Clear()
}
