package mediasource

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const downloadChunkSize = 32 * 1024

// downloadTimeout bounds how long the background fetch waits for response
// headers; connecting is bounded by the retrying client's own 30s dial
// timeout. Reading the body has no deadline, so a long download is never
// cut off part-way, and a stalled body read is not timed out either.
const downloadTimeout = 30 * time.Second

// ProgressiveHttpStream is a MediaSource backed by an append-only buffer
// that a background goroutine fills from an HTTP response body. Reads
// block on a condition variable until more data has been appended or the
// stream reaches a terminal state (EOF or error). The buffer never shrinks
// or rewrites; pos tracks the reader's logical cursor and may be rewound by
// Seek, but the underlying buffer only ever grows.
type ProgressiveHttpStream struct {
	url string

	mu       sync.Mutex
	cond     *sync.Cond
	buf      []byte
	pos      int64
	isEOF    bool
	hasError bool
	err      error
	length   int64
	hasLen   bool
}

// OpenProgressiveHttpStream starts the background downloader and returns
// immediately; the caller can begin reading before the download completes.
func OpenProgressiveHttpStream(url string) (*ProgressiveHttpStream, error) {
	s := &ProgressiveHttpStream{url: url}
	s.cond = sync.NewCond(&s.mu)

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	if tr, ok := client.HTTPClient.Transport.(*http.Transport); ok {
		tr.ResponseHeaderTimeout = downloadTimeout
	}

	go s.download(client)

	return s, nil
}

func (s *ProgressiveHttpStream) download(client *retryablehttp.Client) {
	req, err := retryablehttp.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		s.fail(err)
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		s.fail(err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		s.fail(fmt.Errorf("mediasource: http status %d fetching %s", resp.StatusCode, s.url))
		return
	}

	s.mu.Lock()
	if resp.ContentLength >= 0 {
		s.length = resp.ContentLength
		s.hasLen = true
	}
	s.mu.Unlock()

	chunk := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf = append(s.buf, chunk[:n]...)
			s.cond.Broadcast()
			s.mu.Unlock()
		}
		if readErr != nil {
			if readErr == io.EOF {
				s.mu.Lock()
				s.isEOF = true
				s.cond.Broadcast()
				s.mu.Unlock()
			} else {
				s.fail(readErr)
			}
			return
		}
	}
}

func (s *ProgressiveHttpStream) fail(err error) {
	slog.Warn("progressive stream download failed", "url", s.url, "error", err)
	s.mu.Lock()
	s.hasError = true
	s.err = err
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Read serves bytes from [pos, tail). If pos == tail it waits on the
// condition variable; it returns the download error if one occurred, and
// returns io.EOF only once the download has finished and pos has caught up
// to the final tail.
func (s *ProgressiveHttpStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		tail := int64(len(s.buf))
		if s.pos < tail {
			n := copy(p, s.buf[s.pos:])
			s.pos += int64(n)
			return n, nil
		}
		if s.hasError {
			return 0, s.err
		}
		if s.isEOF {
			return 0, io.EOF
		}
		s.cond.Wait()
	}
}

// Seek repositions the read cursor. SeekStart/SeekCurrent never block.
// SeekEnd blocks until the download reaches a terminal state so the final
// length is known — this is intentional (§10 design note): short-circuiting
// it with a guessed length misleads VBR format detection.
func (s *ProgressiveHttpStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch whence {
	case io.SeekStart:
		s.pos = offset
	case io.SeekCurrent:
		s.pos += offset
	case io.SeekEnd:
		for !s.isEOF && !s.hasError {
			s.cond.Wait()
		}
		if s.hasError {
			return 0, s.err
		}
		s.pos = int64(len(s.buf)) + offset
	default:
		return 0, fmt.Errorf("mediasource: invalid whence %d", whence)
	}

	if s.pos < 0 {
		s.pos = 0
	}
	return s.pos, nil
}

func (s *ProgressiveHttpStream) Close() error { return nil }

func (s *ProgressiveHttpStream) Seekable() bool { return true }

func (s *ProgressiveHttpStream) Len() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length, s.hasLen
}

func (s *ProgressiveHttpStream) LocalPath() (string, bool) { return "", false }

// SpoolToTempFile drains a MediaSource into a temp file and returns its
// path. Decoders bound to a C library that requires a filesystem path
// (mp3, flac) use this for progressive sources that have no LocalPath;
// pure-Go decoders (wav, oggvorbis) read the MediaSource directly instead
// and never need this.
func SpoolToTempFile(ms MediaSource, pattern string) (path string, cleanup func(), err error) {
	if p, ok := ms.LocalPath(); ok {
		return p, func() {}, nil
	}

	if _, err := ms.Seek(0, io.SeekStart); err != nil {
		return "", nil, fmt.Errorf("mediasource: spool seek: %w", err)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("mediasource: spool tempfile: %w", err)
	}

	if _, err := io.Copy(f, ms); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("mediasource: spool copy: %w", err)
	}
	name := f.Name()
	f.Close()

	return name, func() { os.Remove(name) }, nil
}
