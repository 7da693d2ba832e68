package macro

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchemaFromFile(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "schema.json", `{"data":{"__schema":{}}}`)

	cache := NewSchemaCache()
	schema, err := cache.LoadSchema(ctx, path)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"__schema":{}}}`, string(schema))
	require.Equal(t, 1, cache.Len())

	// Later changes are not seen until the entry is dropped.
	require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o644))
	schema, err = cache.LoadSchema(ctx, path)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"__schema":{}}}`, string(schema))

	cache.Forget(path)
	schema, err = cache.LoadSchema(ctx, path)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":2}`, string(schema))

	cache.Reset()
	require.Equal(t, 0, cache.Len())
}

func TestLoadSchemaErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cache := NewSchemaCache()

	_, err := cache.LoadSchema(ctx, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))

	bad := writeFile(t, dir, "bad.json", `{"data":`)
	_, err = cache.LoadSchema(ctx, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "is not valid JSON")
	require.Equal(t, 0, cache.Len())

	_, err = cache.LoadSchema(ctx, "https://example.com/schema.json")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unsupported schema location "https://example.com/schema.json"`)
}

func TestLoadSchemaFromHomeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "schema.json", `[]`)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", dir)

	schema, err := NewSchemaCache().LoadSchema(context.Background(), "~/schema.json")
	require.NoError(t, err)
	require.Equal(t, "[]", string(schema))
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	fetcher := FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(`{"ok":true}`), nil
	})
	cache := NewSchemaCache(WithFetcher("", fetcher))

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			schema, err := cache.LoadSchema(context.Background(), "/schemas/shared.json")
			if err == nil {
				results[i] = schema
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		require.Equal(t, `{"ok":true}`, string(r))
	}
}

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoadSchemaFromS3(t *testing.T) {
	client := &fakeS3{body: `{"types":["Query"]}`}
	cache := NewSchemaCache(WithFetcher("s3", &S3Fetcher{Client: client}))

	schema, err := cache.LoadSchema(context.Background(), "s3://schemas/relay/schema.json")
	require.NoError(t, err)
	require.JSONEq(t, `{"types":["Query"]}`, string(schema))
	require.Equal(t, "schemas", client.bucket)
	require.Equal(t, "relay/schema.json", client.key)

	denied := errors.New("access denied")
	cache = NewSchemaCache(WithFetcher("s3", &S3Fetcher{Client: &fakeS3{err: denied}}))
	_, err = cache.LoadSchema(context.Background(), "s3://schemas/schema.json")
	require.ErrorIs(t, err, denied)
}

func TestS3FetcherRetriesConfigLoad(t *testing.T) {
	ctx := context.Background()
	noCreds := errors.New("no credentials")
	calls := 0
	fetcher := &S3Fetcher{LoadConfig: func(ctx context.Context) (aws.Config, error) {
		calls++
		if calls == 1 {
			return aws.Config{}, noCreds
		}
		return aws.Config{Region: "us-east-1"}, nil
	}}
	cache := NewSchemaCache(WithFetcher("s3", fetcher))

	_, err := cache.LoadSchema(ctx, "s3://schemas/schema.json")
	require.ErrorIs(t, err, noCreds)
	require.Contains(t, err.Error(), "failed to load aws config")

	client, err := fetcher.client(ctx)
	require.NoError(t, err)
	require.IsType(t, &s3.Client{}, client)

	again, err := fetcher.client(ctx)
	require.NoError(t, err)
	require.Same(t, client, again)
	require.Equal(t, 2, calls)
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := ParseS3Location("s3://bucket/a/b.json")
	require.NoError(t, err)
	require.Equal(t, "bucket", bucket)
	require.Equal(t, "a/b.json", key)

	for _, bad := range []string{"s3://bucket", "s3://bucket/", "s3:///key", "/tmp/schema.json"} {
		_, _, err := ParseS3Location(bad)
		require.Error(t, err, bad)
	}
}

func TestSchemeOf(t *testing.T) {
	require.Equal(t, "", schemeOf("/tmp/schema.json"))
	require.Equal(t, "", schemeOf("schema.json"))
	require.Equal(t, "s3", schemeOf("s3://bucket/key"))
	require.Equal(t, "s3", schemeOf("S3://bucket/key"))
	require.Equal(t, "", schemeOf("://nothing"))
}
