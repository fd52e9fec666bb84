package uploadclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

var ErrTransferFailed = errors.New("upload failed")

// Transfer is one direct PUT to a write URL. Progress values are whole
// percentages, strictly increasing; 100 is only sent after the store
// answered 2xx. The channel is closed when the transfer ends.
type Transfer struct {
	progress chan int
	done     chan struct{}
	err      error

	mu   sync.Mutex
	last int
}

// StartTransfer begins uploading size bytes from body to url. The request
// carries exactly the content type the URL was signed for and an explicit
// Content-Length.
func StartTransfer(ctx context.Context, hc *http.Client, url, contentType string, size int64, body io.Reader) *Transfer {
	if hc == nil {
		hc = http.DefaultClient
	}
	t := &Transfer{
		progress: make(chan int, 101),
		done:     make(chan struct{}),
		last:     -1,
	}
	go t.run(ctx, hc, url, contentType, size, body)
	return t
}

func (t *Transfer) Progress() <-chan int { return t.progress }

// Wait blocks until the transfer finishes and returns its outcome.
func (t *Transfer) Wait() error {
	<-t.done
	return t.err
}

func (t *Transfer) run(ctx context.Context, hc *http.Client, url, contentType string, size int64, body io.Reader) {
	defer close(t.done)
	defer close(t.progress)

	t.report(0)
	counter := &countingReader{r: body, total: size, onRead: t.report}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, counter)
	if err != nil {
		t.err = fmt.Errorf("%w: %v", ErrTransferFailed, err)
		return
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := hc.Do(req)
	if err != nil {
		t.err = fmt.Errorf("%w: %v", ErrTransferFailed, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.err = fmt.Errorf("%w: status %d", ErrTransferFailed, resp.StatusCode)
		return
	}
	t.report(100)
}

func (t *Transfer) report(pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pct <= t.last {
		return
	}
	t.last = pct
	t.progress <- pct
}

// countingReader reports how much of the body has been handed to the
// transport. It never reports 100; that is reserved for a confirmed store.
type countingReader struct {
	r      io.Reader
	total  int64
	sent   int64
	onRead func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.total > 0 {
		c.sent += int64(n)
		pct := int(c.sent * 100 / c.total)
		if pct > 99 {
			pct = 99
		}
		c.onRead(pct)
	}
	return n, err
}
