package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/webiny-go/restroute/internal/observability"
	"github.com/webiny-go/restroute/internal/table"
	"github.com/webiny-go/restroute/internal/util"
)

// tableExt is the file extension of compiled table files.
const tableExt = ".yaml"

// Loader resolves compiled routing tables by identifier, memoizing the
// raw file bytes through a Cache so repeated requests skip the
// filesystem. Parsed tables still go through validation on every load so
// a poisoned cache entry cannot smuggle an unusable table into routing.
type Loader struct {
	dir    string
	cache  Cache
	ttl    time.Duration
	logger observability.Logger
}

// NewLoader creates a Loader reading table files from dir and memoizing
// them in cache. A zero ttl applies the cache backend's default.
func NewLoader(dir string, cache Cache, ttl time.Duration, logger observability.Logger) *Loader {
	if cache == nil {
		cache = newDisabledCache()
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Loader{dir: dir, cache: cache, ttl: ttl, logger: logger}
}

// Filename returns the compiled-table identifier for an (api, class,
// version) triple. The identifier doubles as the cache key and the file
// name under the table directory.
func (l *Loader) Filename(api, class, version string) string {
	return api + "." + class + "." + version + tableExt
}

// Content loads, parses, and validates the table behind filename.
func (l *Loader) Content(ctx context.Context, filename string) (*table.ClassTable, error) {
	if data, err := l.cache.Get(ctx, filename); err == nil {
		return l.parse(filename, data)
	} else if !errors.Is(err, ErrCacheMiss) {
		// A failing backend must not take routing down with it.
		l.logger.Warn("table cache read failed, falling back to file",
			observability.String("filename", filename),
			observability.Error(err))
	}

	data, err := os.ReadFile(filepath.Join(l.dir, filename)) //nolint:gosec // filename is built from validated config
	if err != nil {
		return nil, util.NewCacheDataErrorWithCause(filename, "table file unreadable", err)
	}

	parsed, err := l.parse(filename, data)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, filename, data, l.ttl); err != nil {
		l.logger.Warn("table cache write failed",
			observability.String("filename", filename),
			observability.Error(err))
	}

	return parsed, nil
}

// Invalidate drops the memoized entry for filename.
func (l *Loader) Invalidate(ctx context.Context, filename string) error {
	return l.cache.Delete(ctx, filename)
}

func (l *Loader) parse(filename string, data []byte) (*table.ClassTable, error) {
	var parsed table.ClassTable
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, util.NewCacheDataErrorWithCause(filename, "malformed table document", err)
	}
	if err := parsed.Validate(); err != nil {
		return nil, util.NewCacheDataErrorWithCause(filename, "invalid table document", err)
	}
	return &parsed, nil
}
