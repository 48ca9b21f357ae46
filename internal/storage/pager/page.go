// Package pager implements the fixed-size paged storage layer: a 4096-byte
// page header, a slotted-page codec built on top of it, and a write-through
// pager that materializes pages against a single database file.
//
// What: every table and index root is a single leaf page (§3/§9 — no
// multi-page B-tree splits in this design). The catalog itself lives at page
// 0 as an ordinary slotted page.
// How: grounded on the teacher's internal/storage/pager package (page.go,
// slotted_page.go, pager.go), trimmed to the simpler single-leaf,
// write-through design this spec calls for — no WAL, no CRC, no superblock,
// no buffer-pool eviction (the original C pager never evicts either; it is
// a flat array of up to 100 page slots and a cache miss beyond that bound is
// fatal, not an LRU policy).
// Why: matching the teacher's page-codec shape (header + helpers operating
// on a raw []byte) keeps the format obvious to eyeball from a hex dump, and
// keeps the codec decoupled from how pages are cached or persisted.
package pager

import "encoding/binary"

const (
	// PageSize is the fixed page size in bytes.
	PageSize = 4096

	// MaxPages bounds the pager's page-number-indexed cache. A page number
	// at or beyond this bound is an out-of-bounds, fatal condition (§4.3).
	MaxPages = 100

	// HeaderSize is the size of the common page header.
	//   [0]    NodeType  (1 byte)
	//   [1]    IsRoot    (1 byte)
	//   [2:4]  NumCells  (2 bytes, LE)
	//   [4:6]  DataStart (2 bytes, LE)
	//   [6:8]  NextLeaf  (2 bytes, LE) — reserved, always 0
	HeaderSize = 8
)

// NodeType identifies the kind of page. Only NodeLeaf is implemented; the
// header carries NodeInternal purely so an eventual B-tree walk can be added
// without changing the on-disk format (§9).
type NodeType uint8

const (
	NodeLeaf     NodeType = 0
	NodeInternal NodeType = 1
)

// Header is the 8-byte header present at the start of every page.
type Header struct {
	NodeType  NodeType
	IsRoot    bool
	NumCells  uint16
	DataStart uint16
	NextLeaf  uint16
}

// ReadHeader decodes the header from the first HeaderSize bytes of buf.
func ReadHeader(buf []byte) Header {
	return Header{
		NodeType:  NodeType(buf[0]),
		IsRoot:    buf[1] != 0,
		NumCells:  binary.LittleEndian.Uint16(buf[2:4]),
		DataStart: binary.LittleEndian.Uint16(buf[4:6]),
		NextLeaf:  binary.LittleEndian.Uint16(buf[6:8]),
	}
}

// WriteHeader encodes h into the first HeaderSize bytes of buf.
func WriteHeader(buf []byte, h Header) {
	buf[0] = byte(h.NodeType)
	if h.IsRoot {
		buf[1] = 1
	} else {
		buf[1] = 0
	}
	binary.LittleEndian.PutUint16(buf[2:4], h.NumCells)
	binary.LittleEndian.PutUint16(buf[4:6], h.DataStart)
	binary.LittleEndian.PutUint16(buf[6:8], h.NextLeaf)
}

// NewPage allocates a zeroed PageSize buffer.
func NewPage() []byte {
	return make([]byte, PageSize)
}
