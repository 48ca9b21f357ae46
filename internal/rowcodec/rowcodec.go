// Package rowcodec encodes and decodes table rows against a column schema.
//
// What: a row is a concatenation of typed cells in column-declaration
// order, with no terminator — INT as a 4-byte little-endian signed int,
// TEXT as a length-prefixed byte string (§4.5).
// How: grounded on the teacher's internal/storage/pager/row_codec.go for
// the shape of a tag-free, length-prefixed binary row format, simplified
// to the two fixed types this system supports (no nil/bool/float tags,
// no type byte at all — the schema, not the row bytes, says what each
// cell is).
// Why: decoding needs the schema to find cell boundaries, so the codec is
// schema-driven rather than self-describing; this matches how the catalog
// already carries per-column types for exactly this purpose.
package rowcodec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/SimonWaldherr/slotdbd/internal/arena"
	"github.com/SimonWaldherr/slotdbd/internal/catalog"
)

// EncodeInt returns the 4-byte little-endian encoding of v.
func EncodeInt(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

// EncodeText returns the length-prefixed encoding of s.
func EncodeText(s string) []byte {
	b := make([]byte, 4+len(s))
	binary.LittleEndian.PutUint32(b[0:4], uint32(len(s)))
	copy(b[4:], s)
	return b
}

// EncodeLiteral parses literal (a decimal digit string for INT, a raw
// string for TEXT — quotes already stripped by the parser) according to
// typ and returns its on-disk bytes.
func EncodeLiteral(typ catalog.DataType, literal string) ([]byte, error) {
	switch typ {
	case catalog.TypeInt:
		n, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("rowcodec: %q is not a valid integer: %w", literal, err)
		}
		return EncodeInt(int32(n)), nil
	case catalog.TypeText:
		return EncodeText(literal), nil
	default:
		return nil, fmt.Errorf("rowcodec: unknown column type %v", typ)
	}
}

// SerializeRow encodes values (already-formatted literal strings, one per
// column, in schema order) into a row's on-disk bytes.
func SerializeRow(cols []catalog.ColumnDef, values []string) ([]byte, error) {
	if len(values) != len(cols) {
		return nil, fmt.Errorf("rowcodec: expected %d values, got %d", len(cols), len(values))
	}
	var out []byte
	for i, c := range cols {
		enc, err := EncodeLiteral(c.Type, values[i])
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// DeserializeRowStrings decodes row according to cols into one string per
// column — INT rendered as decimal text, TEXT rendered raw (no quoting).
// Used by the executor for WHERE/join comparisons and projection (§4.5).
// Every returned string is a view allocated from a, the caller's per-worker
// scratch arena (§4.1, §5): these strings live only for the one statement
// that decoded them and are never referenced after the arena's scope ends.
func DeserializeRowStrings(cols []catalog.ColumnDef, row []byte, a *arena.Arena) ([]string, error) {
	out := make([]string, len(cols))
	off := 0
	for i, c := range cols {
		switch c.Type {
		case catalog.TypeInt:
			if off+4 > len(row) {
				return nil, fmt.Errorf("rowcodec: truncated row at column %d (%s)", i, c.Name)
			}
			v := int32(binary.LittleEndian.Uint32(row[off : off+4]))
			out[i] = a.AllocString(strconv.FormatInt(int64(v), 10))
			off += 4
		case catalog.TypeText:
			if off+4 > len(row) {
				return nil, fmt.Errorf("rowcodec: truncated row at column %d (%s)", i, c.Name)
			}
			n := int(binary.LittleEndian.Uint32(row[off : off+4]))
			off += 4
			if off+n > len(row) {
				return nil, fmt.Errorf("rowcodec: truncated text at column %d (%s)", i, c.Name)
			}
			out[i] = a.AllocString(string(row[off : off+n]))
			off += n
		default:
			return nil, fmt.Errorf("rowcodec: unknown column type %v", c.Type)
		}
	}
	return out, nil
}

// FormatRow renders a decoded row as the wire protocol's human-readable
// line: "(v1, v2, …)\n", TEXT values quoted with no escaping (§4.5, §6.3).
func FormatRow(cols []catalog.ColumnDef, values []string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		if cols[i].Type == catalog.TypeText {
			b.WriteByte('"')
			b.WriteString(v)
			b.WriteByte('"')
		} else {
			b.WriteString(v)
		}
	}
	b.WriteString(")\n")
	return b.String()
}
