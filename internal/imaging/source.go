package imaging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	errUnsupportedSource = errors.New("unsupported image source")
	errTooLarge          = errors.New("image exceeds size limit")
	errBlobNotFound      = errors.New("blob not found")
	errBadDataURI        = errors.New("malformed data URI")
)

// BlobPrefix starts every reference handed out by BlobStore.
const BlobPrefix = "blob:cvkit/"

// BlobStore keeps uploaded images in memory under blob: references.
// Safe for concurrent use.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewBlobStore creates an empty BlobStore.
func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

// Put stores a copy of data and returns its reference.
func (s *BlobStore) Put(data []byte) string {
	ref := BlobPrefix + uuid.NewString()
	s.mu.Lock()
	s.blobs[ref] = append([]byte(nil), data...)
	s.mu.Unlock()
	return ref
}

// Get returns the bytes stored under ref.
func (s *BlobStore) Get(ref string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[ref]
	return data, ok
}

// Revoke forgets ref. Unknown references are ignored.
func (s *BlobStore) Revoke(ref string) {
	s.mu.Lock()
	delete(s.blobs, ref)
	s.mu.Unlock()
}

// load resolves src to raw bytes.
func (p *Processor) load(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, errUnsupportedSource
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(src, "blob:"):
		return p.loadBlob(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return p.fetch(ctx, src)
	case strings.HasPrefix(src, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUnsupportedSource, err)
		}
		return p.readFile(u.Path)
	case strings.Contains(src, "://"):
		return nil, fmt.Errorf("%w: %s", errUnsupportedSource, src)
	}
	return p.readFile(src)
}

func (p *Processor) loadBlob(ref string) ([]byte, error) {
	if p.blobs == nil {
		return nil, errBlobNotFound
	}
	data, ok := p.blobs.Get(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errBlobNotFound, ref)
	}
	return data, nil
}

// decodeDataURI handles data:[<mediatype>][;base64],<data>.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errBadDataURI
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
			if data, err := enc.DecodeString(payload); err == nil {
				return data, nil
			}
		}
		return nil, fmt.Errorf("%w: invalid base64 payload", errBadDataURI)
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadDataURI, err)
	}
	return []byte(data), nil
}

func (p *Processor) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}
	if resp.ContentLength > p.maxBytes {
		return nil, errTooLarge
	}
	return readLimited(resp.Body, p.maxBytes)
}

func (p *Processor) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, p.maxBytes)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}
