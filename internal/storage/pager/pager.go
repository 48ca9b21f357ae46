package pager

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Pager owns the single database file and caches pages in a fixed array
// indexed directly by page number (§4.3). It is write-through: every Flush
// call writes synchronously, there is no dirty-bit batching and no WAL.
//
// Grounded on the teacher's internal/storage/pager/pager.go, with the
// buffer-pool/eviction/WAL machinery removed to match the original C
// pager (src/pager/pager.c): a flat [MaxPages][]byte array, not an LRU
// cache. Asking for a page number beyond MaxPages is a programming error,
// not a condition to recover from, so GetPage panics rather than erroring.
type Pager struct {
	file     *os.File
	pages    [MaxPages][]byte
	numPages int
}

// Open opens (creating if necessary) the database file at path and measures
// its length to derive the initial page count. A file length that is not an
// exact multiple of PageSize is logged as a warning and the page count is
// rounded down to whole pages; the file itself is not modified, and the
// partial trailing page is read as zeroes and overwritten by its next Flush.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pager: stat %s: %w", path, err)
	}
	size := info.Size()
	if size%PageSize != 0 {
		log.Printf("pager: %s length %d is not a multiple of page size %d, ignoring trailing partial page", path, size, PageSize)
	}
	return &Pager{file: f, numPages: int(size / PageSize)}, nil
}

// NumPages reports how many whole pages exist in the file, including any
// already materialized only in the cache via GetPage.
func (p *Pager) NumPages() int { return p.numPages }

// GetPage returns the cached buffer for page n, reading it from disk on a
// first access. Pages beyond the current end of file are zero-filled (a
// page becomes durable only once Flush is called for it). n must be less
// than MaxPages; exceeding that bound is fatal (§4.3 — the cache is a flat
// array, not an evictable LRU).
func (p *Pager) GetPage(n int) []byte {
	if n < 0 || n >= MaxPages {
		panic(fmt.Sprintf("pager: page number %d out of bounds (max %d)", n, MaxPages-1))
	}
	if p.pages[n] != nil {
		return p.pages[n]
	}

	buf := NewPage()
	if n < p.numPages {
		off := int64(n) * PageSize
		nr, err := p.file.ReadAt(buf, off)
		if err != nil && err != io.EOF {
			panic(fmt.Sprintf("pager: read page %d: %v", n, err))
		}
		_ = nr // short/EOF reads leave the remainder zero-filled, matching a hole in a sparse file
	}
	p.pages[n] = buf
	if n+1 > p.numPages {
		p.numPages = n + 1
	}
	return buf
}

// Flush writes page n's buffer to disk synchronously. The page must have
// already been materialized via GetPage (or InitLeaf'd into a buffer handed
// to GetPage) — Flush never allocates a buffer itself.
func (p *Pager) Flush(n int) error {
	if n < 0 || n >= MaxPages {
		panic(fmt.Sprintf("pager: page number %d out of bounds (max %d)", n, MaxPages-1))
	}
	buf := p.pages[n]
	if buf == nil {
		return fmt.Errorf("pager: flush page %d: page not in cache", n)
	}
	off := int64(n) * PageSize
	if _, err := p.file.WriteAt(buf, off); err != nil {
		return fmt.Errorf("pager: write page %d: %w", n, err)
	}
	if n+1 > p.numPages {
		p.numPages = n + 1
	}
	return nil
}

// Close releases the underlying file descriptor. It does not flush any
// cached page — callers must Flush explicitly, matching the write-through
// contract (every mutating operation flushes as it goes; Close never
// papers over a missed Flush).
func (p *Pager) Close() error {
	return p.file.Close()
}
