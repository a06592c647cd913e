package spaces

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"spaces-storage/storage"
)

type fakeObject struct {
	data         []byte
	contentType  string
	cacheControl string
	etag         string
	lastModified time.Time
}

// fakeClient is an in-memory stand-in for the Space. Forced errors let tests
// simulate an unreachable bucket per operation.
type fakeClient struct {
	mu      sync.Mutex
	objects map[string]fakeObject

	headCalls   int
	putCalls    int
	getCalls    int
	deleteCalls int

	lastACL s3types.ObjectCannedACL

	headErr   error
	putErr    error
	getErr    error
	deleteErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: map[string]fakeObject{}}
}

func (f *fakeClient) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headCalls++
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(params.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeClient) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.lastACL = params.ACL
	f.objects[aws.ToString(params.Key)] = fakeObject{
		data:         data,
		contentType:  aws.ToString(params.ContentType),
		cacheControl: aws.ToString(params.CacheControl),
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	out := &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: aws.Int64(int64(len(obj.data))),
	}
	if obj.contentType != "" {
		out.ContentType = aws.String(obj.contentType)
	}
	if obj.cacheControl != "" {
		out.CacheControl = aws.String(obj.cacheControl)
	}
	if obj.etag != "" {
		out.ETag = aws.String(obj.etag)
	}
	if !obj.lastModified.IsZero() {
		out.LastModified = aws.Time(obj.lastModified)
	}
	return out, nil
}

func (f *fakeClient) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

const testSpaceURL = "https://media.nyc3.digitaloceanspaces.com"

// newTestStore fills every config field explicitly so the environment never
// leaks into tests.
func newTestStore(t *testing.T, client objectClient, opts ...Option) *Store {
	t.Helper()
	cfg := Config{
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Region:          "nyc3",
		Bucket:          "media",
		SpaceURL:        testSpaceURL,
		Subfolder:       "content",
		Endpoint:        "https://nyc3.digitaloceanspaces.com",
	}
	opts = append([]Option{withClient(client)}, opts...)
	s, err := New(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestExists(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.objects["2026/08/a.webp"] = fakeObject{data: []byte("x")}
	s := newTestStore(t, fake)
	ctx := context.Background()

	if !s.Exists(ctx, "a.webp", "2026/08") {
		t.Error("expected stored object to exist")
	}
	if s.Exists(ctx, "missing.webp", "2026/08") {
		t.Error("expected missing object to not exist")
	}
}

func TestExistsSwallowsLookupFailure(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.objects["2026/08/a.webp"] = fakeObject{data: []byte("x")}
	fake.headErr = errors.New("connection refused")
	s := newTestStore(t, fake)

	if s.Exists(context.Background(), "a.webp", "2026/08") {
		t.Error("expected false when the bucket is unreachable")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.objects["2026/08/a.webp"] = fakeObject{data: []byte("x")}
	s := newTestStore(t, fake)
	ctx := context.Background()

	if !s.Delete(ctx, "a.webp", "2026/08") {
		t.Error("expected delete to succeed")
	}
	if _, ok := fake.objects["2026/08/a.webp"]; ok {
		t.Error("expected object to be gone")
	}
	if s.Exists(ctx, "a.webp", "2026/08") {
		t.Error("expected deleted object to stop existing")
	}
}

func TestDeleteAbsentObjectSucceeds(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	s := newTestStore(t, fake)

	if !s.Delete(context.Background(), "never-stored.webp", "2026/08") {
		t.Error("expected delete of an absent object to succeed")
	}
}

func TestDeleteSwallowsFailure(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.deleteErr = errors.New("connection refused")

	var gotOp string
	var gotErr error
	s := newTestStore(t, fake, WithErrorHandler(func(op string, err error) {
		gotOp, gotErr = op, err
	}))

	if s.Delete(context.Background(), "a.webp", "2026/08") {
		t.Error("expected false when the bucket is unreachable")
	}
	if gotOp != "delete" || gotErr == nil {
		t.Errorf("expected delete failure to reach the error handler, got op=%q err=%v", gotOp, gotErr)
	}
}

func TestReadReturnsStoredBytes(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.objects["2026/08/a.webp"] = fakeObject{data: []byte("payload")}
	s := newTestStore(t, fake)

	got, err := s.Read(context.Background(), storage.ReadOptions{Path: testSpaceURL + "/2026/08/a.webp"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("payload")) {
		t.Errorf("got %q, want %q", got, "payload")
	}
}

func TestReadRejectsForeignURL(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	s := newTestStore(t, fake)

	_, err := s.Read(context.Background(), storage.ReadOptions{Path: "https://elsewhere.example.com/a.webp"})
	if !errors.Is(err, storage.ErrNotManaged) {
		t.Fatalf("expected ErrNotManaged, got %v", err)
	}
	if fake.getCalls != 0 {
		t.Errorf("expected no fetch for a foreign URL, got %d calls", fake.getCalls)
	}
}

func TestReadPropagatesFetchError(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	forced := errors.New("simulated outage")
	fake.getErr = forced
	s := newTestStore(t, fake)

	_, err := s.Read(context.Background(), storage.ReadOptions{Path: testSpaceURL + "/2026/08/a.webp"})
	if !errors.Is(err, forced) {
		t.Fatalf("expected the fetch error unchanged, got %v", err)
	}
}

func TestServeStreamsObject(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()
	fake.objects["content/2026/08/a.webp"] = fakeObject{
		data:         []byte("webp bytes"),
		contentType:  "image/webp",
		cacheControl: "max-age=31536000",
		etag:         `"abc123"`,
		lastModified: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	s := newTestStore(t, fake)

	rec := httptest.NewRecorder()
	s.Serve().ServeHTTP(rec, httptest.NewRequest("GET", "/2026/08/a.webp", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "webp bytes" {
		t.Errorf("body: got %q", got)
	}
	headers := map[string]string{
		"Content-Type":   "image/webp",
		"Content-Length": "10",
		"Cache-Control":  "max-age=31536000",
		"ETag":           `"abc123"`,
		"Last-Modified":  "Fri, 02 Jan 2026 03:04:05 GMT",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
}

func TestServeMissingObjectIs404(t *testing.T) {
	t.Parallel()
	fake := newFakeClient()

	var gotOp string
	s := newTestStore(t, fake, WithErrorHandler(func(op string, err error) { gotOp = op }))

	rec := httptest.NewRecorder()
	s.Serve().ServeHTTP(rec, httptest.NewRequest("GET", "/2026/08/missing.webp", nil))

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if gotOp != "serve" {
		t.Errorf("expected serve failure to reach the error handler, got op=%q", gotOp)
	}
}
