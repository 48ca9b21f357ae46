package pager

import "encoding/binary"

// ───────────────────────────────────────────────────────────────────────────
// Slotted page
// ───────────────────────────────────────────────────────────────────────────
//
// Layout of a page buffer:
//
//   [0:8]                  Header
//   [8:8+4*NumCells]       Slot directory, slots grow upward
//   ... free space ...
//   [DataStart:PageSize]   Heap, cells grow downward
//
// Each slot is 4 bytes: offset (uint16 LE), size (uint16 LE). A slot with
// size == 0 is a tombstone; its heap bytes are abandoned until a future
// compaction (not implemented — §4.2/§9).
//
// A cell holds one key/value pair: key_len (uint32 LE) | key bytes | value
// bytes. The slot's size covers the whole cell.

const slotEntrySize = 4

// Page wraps a raw PageSize buffer and provides slotted-page operations.
// It never copies buf; callers own the buffer's lifetime (normally the
// pager's page cache).
type Page struct {
	buf []byte
}

// Wrap adapts an existing page buffer for slotted-page access.
func Wrap(buf []byte) *Page { return &Page{buf: buf} }

// Bytes returns the underlying page buffer.
func (p *Page) Bytes() []byte { return p.buf }

// InitLeaf resets buf to an empty root leaf page (§4.2).
func InitLeaf(buf []byte) *Page {
	WriteHeader(buf, Header{NodeType: NodeLeaf, IsRoot: true, NumCells: 0, DataStart: PageSize, NextLeaf: 0})
	return &Page{buf: buf}
}

func (p *Page) header() Header { return ReadHeader(p.buf) }

func (p *Page) setNumCells(n uint16) {
	binary.LittleEndian.PutUint16(p.buf[2:4], n)
}

func (p *Page) setDataStart(off uint16) {
	binary.LittleEndian.PutUint16(p.buf[4:6], off)
}

// NumCells returns the number of slot entries, including tombstones.
func (p *Page) NumCells() int { return int(p.header().NumCells) }

// DataStart returns the byte offset where the heap begins.
func (p *Page) DataStart() int { return int(p.header().DataStart) }

func slotOffset(i int) int { return HeaderSize + i*slotEntrySize }

type slot struct {
	offset uint16
	size   uint16
}

func (p *Page) getSlot(i int) slot {
	off := slotOffset(i)
	return slot{
		offset: binary.LittleEndian.Uint16(p.buf[off : off+2]),
		size:   binary.LittleEndian.Uint16(p.buf[off+2 : off+4]),
	}
}

func (p *Page) setSlot(i int, s slot) {
	off := slotOffset(i)
	binary.LittleEndian.PutUint16(p.buf[off:off+2], s.offset)
	binary.LittleEndian.PutUint16(p.buf[off+2:off+4], s.size)
}

// IsTombstone reports whether slot i has been deleted.
func (p *Page) IsTombstone(i int) bool { return p.getSlot(i).size == 0 }

// FreeSpace returns the bytes available for the heap beyond the slot
// directory, before accounting for a prospective new slot entry.
func (p *Page) FreeSpace() int {
	h := p.header()
	used := HeaderSize + int(h.NumCells)*slotEntrySize
	return int(h.DataStart) - used
}

// Insert appends a new cell (key, value) to the page. Reports false if the
// page has no room; callers must check for duplicate keys themselves —
// Insert never scans existing slots (§4.2).
func (p *Page) Insert(key, value []byte) bool {
	payload := 4 + len(key) + len(value)
	if p.FreeSpace() < payload+slotEntrySize {
		return false
	}

	h := p.header()
	newStart := int(h.DataStart) - payload
	heap := p.buf[newStart:]
	binary.LittleEndian.PutUint32(heap[0:4], uint32(len(key)))
	copy(heap[4:4+len(key)], key)
	copy(heap[4+len(key):4+len(key)+len(value)], value)

	idx := int(h.NumCells)
	p.setSlot(idx, slot{offset: uint16(newStart), size: uint16(payload)})
	p.setDataStart(uint16(newStart))
	p.setNumCells(h.NumCells + 1)
	return true
}

// ReadSlot returns the key and value bytes for slot i. The caller must skip
// tombstoned slots (IsTombstone) before calling; behavior is undefined for
// a tombstone because its heap bytes are unspecified after deletion.
func (p *Page) ReadSlot(i int) (key, value []byte) {
	s := p.getSlot(i)
	cell := p.buf[s.offset : s.offset+s.size]
	keyLen := binary.LittleEndian.Uint32(cell[0:4])
	key = cell[4 : 4+keyLen]
	value = cell[4+keyLen:]
	return key, value
}

// Tombstone marks slot i as deleted. Heap bytes are not reclaimed.
func (p *Page) Tombstone(i int) {
	p.setSlot(i, slot{offset: 0, size: 0})
}

// UpdateInPlace overwrites the value of slot i with newValue, provided the
// resulting cell fits within the slot's existing size. Returns false (no
// change made) if it does not fit — the caller must tombstone and re-insert
// instead (§4.2).
func (p *Page) UpdateInPlace(i int, key, newValue []byte) bool {
	s := p.getSlot(i)
	newPayload := 4 + len(key) + len(newValue)
	if newPayload > int(s.size) {
		return false
	}
	cell := p.buf[s.offset : s.offset+s.size]
	binary.LittleEndian.PutUint32(cell[0:4], uint32(len(key)))
	copy(cell[4:4+len(key)], key)
	copy(cell[4+len(key):4+len(key)+len(newValue)], newValue)
	p.setSlot(i, slot{offset: s.offset, size: uint16(newPayload)})
	return true
}

// LiveCount returns the number of non-tombstoned slots.
func (p *Page) LiveCount() int {
	n := 0
	for i := 0; i < p.NumCells(); i++ {
		if !p.IsTombstone(i) {
			n++
		}
	}
	return n
}
