// Package macro connects the Macro transformer to macro implementations that
// live outside the process.
//
// A macro implementation is reached through a Runner: it receives one JSON
// document describing the call site and answers with one JSON document
// holding the replacement tree. Expander speaks that protocol and decodes
// the answer into syntax nodes. RunnerFunc adapts an in-process function and
// WasmRunner executes a WASI module, so a macro can be written in any
// language that compiles to WebAssembly.
//
// SchemaCache loads the schema documents macros are compiled against, from
// the local file system or from S3.
package macro

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Fetcher reads the raw bytes of a schema document.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch calls f(ctx, location).
func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// FileFetcher reads schemas from the local file system. A leading "~" is
// expanded to the home directory.
type FileFetcher struct{}

// Fetch reads the file at location.
func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	path, err := homedir.Expand(location)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// CacheOption configures a SchemaCache.
type CacheOption func(*SchemaCache)

// WithFetcher registers the fetcher used for locations with the given URL
// scheme, such as "s3". The empty scheme is used for plain file paths.
func WithFetcher(scheme string, f Fetcher) CacheOption {
	return func(c *SchemaCache) {
		c.fetchers[scheme] = f
	}
}

// SchemaCache loads schema documents and keeps them for the lifetime of the
// cache. Concurrent loads of the same location share one fetch. SchemaCache
// implements transform.SchemaLoader and is safe for concurrent use.
type SchemaCache struct {
	mu       sync.RWMutex
	schemas  map[string][]byte
	group    singleflight.Group
	fetchers map[string]Fetcher
}

// NewSchemaCache returns a cache that reads plain paths with FileFetcher and
// s3://bucket/key locations with an S3Fetcher using the default AWS
// configuration. Options may replace either.
func NewSchemaCache(opts ...CacheOption) *SchemaCache {
	c := &SchemaCache{
		schemas: map[string][]byte{},
		fetchers: map[string]Fetcher{
			"":   FileFetcher{},
			"s3": &S3Fetcher{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadSchema returns the schema stored at location, fetching it on first
// use. The document must be valid JSON. Failed loads are not cached.
func (c *SchemaCache) LoadSchema(ctx context.Context, location string) ([]byte, error) {
	c.mu.RLock()
	schema, ok := c.schemas[location]
	c.mu.RUnlock()
	if ok {
		return schema, nil
	}
	v, err, shared := c.group.Do(location, func() (any, error) {
		return c.fetch(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().
		Str("schema", location).
		Bool("shared", shared).
		Msg("loaded macro schema")
	return v.([]byte), nil
}

func (c *SchemaCache) fetch(ctx context.Context, location string) ([]byte, error) {
	scheme := schemeOf(location)
	f, ok := c.fetchers[scheme]
	if !ok {
		return nil, fmt.Errorf("unsupported schema location %q", location)
	}
	data, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("schema %s is not valid JSON", location)
	}
	c.mu.Lock()
	c.schemas[location] = data
	c.mu.Unlock()
	return data, nil
}

// Forget drops the cached copy of location so the next load fetches it
// again.
func (c *SchemaCache) Forget(location string) {
	c.mu.Lock()
	delete(c.schemas, location)
	c.mu.Unlock()
}

// Reset drops every cached schema.
func (c *SchemaCache) Reset() {
	c.mu.Lock()
	c.schemas = map[string][]byte{}
	c.mu.Unlock()
}

// Len returns the number of cached schemas.
func (c *SchemaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.schemas)
}

func schemeOf(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(location[:i])
}
