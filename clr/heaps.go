// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Heaps holds the four metadata heap streams that back the tables stream's
// string, GUID and blob offsets. A heap that the module does not carry is
// simply an empty slice; lookups against it fail soft, exactly as lookups
// against an out-of-range offset into a heap that is present.
type Heaps struct {
	Strings []byte
	US      []byte
	GUID    []byte
	Blob    []byte
}

// readCompressedUint decodes an ECMA-335 §II.23.2 compressed unsigned
// integer starting at off within data. It returns the decoded value, the
// number of bytes consumed, and whether the encoding was well-formed.
func readCompressedUint(data []byte, off uint32) (uint32, uint32, bool) {
	if off >= uint32(len(data)) {
		return 0, 0, false
	}
	first := data[off]

	switch {
	case first&0x80 == 0:
		return uint32(first), 1, true
	case first&0xC0 == 0x80:
		if off+2 > uint32(len(data)) {
			return 0, 0, false
		}
		v := (uint32(first&0x3F) << 8) | uint32(data[off+1])
		return v, 2, true
	case first&0xE0 == 0xC0:
		if off+4 > uint32(len(data)) {
			return 0, 0, false
		}
		v := (uint32(first&0x1F) << 24) |
			(uint32(data[off+1]) << 16) |
			(uint32(data[off+2]) << 8) |
			uint32(data[off+3])
		return v, 4, true
	default:
		return 0, 0, false
	}
}

// String resolves an offset into the #Strings heap to a NUL-terminated
// UTF-8 string. An out-of-range offset returns ok=false rather than an
// error: the caller logs a warning and treats the value as absent.
func (h Heaps) String(offset uint32) (string, bool) {
	if offset == 0 {
		return "", true
	}
	if offset >= uint32(len(h.Strings)) {
		return "", false
	}
	end := offset
	for end < uint32(len(h.Strings)) && h.Strings[end] != 0 {
		end++
	}
	if end >= uint32(len(h.Strings)) {
		return "", false
	}
	raw := h.Strings[offset:end]
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// UserString resolves an offset into the #US heap. Entries are a
// compressed-int byte length (covering the UTF-16LE payload plus one
// trailing flag byte), the UTF-16LE text itself, and a trailing byte whose
// low bit signals that the string contains characters requiring special
// handling at the CLR level. Only the decoded text is returned; the
// trailing flag byte is skipped and not exposed.
func (h Heaps) UserString(offset uint32) (string, bool) {
	if offset == 0 {
		return "", true
	}
	length, n, ok := readCompressedUint(h.US, offset)
	if !ok || length == 0 {
		return "", ok && length == 0
	}
	start := offset + n
	end := start + length
	if end > uint32(len(h.US)) {
		return "", false
	}
	// The final byte is the trailing flag, not part of the UTF-16 text.
	textLen := length - 1
	text := h.US[start : start+textLen]
	if len(text)%2 != 0 {
		return "", false
	}
	units := make([]uint16, len(text)/2)
	for i := range units {
		units[i] = uint16(text[2*i]) | uint16(text[2*i+1])<<8
	}
	return string(utf16.Decode(units)), true
}

// GUID resolves a 1-based index into the #GUID heap. Index 0 means absent
// and is not an error.
func (h Heaps) GUID(index uint32) ([16]byte, bool, bool) {
	if index == 0 {
		return [16]byte{}, false, true
	}
	start := (index - 1) * 16
	if start+16 > uint32(len(h.GUID)) {
		return [16]byte{}, false, false
	}
	var g [16]byte
	copy(g[:], h.GUID[start:start+16])
	return g, true, true
}

// Blob resolves an offset into the #Blob heap, returning the raw bytes that
// follow the compressed-int length prefix.
func (h Heaps) Blob(offset uint32) ([]byte, bool) {
	if offset == 0 {
		return nil, true
	}
	length, n, ok := readCompressedUint(h.Blob, offset)
	if !ok {
		return nil, false
	}
	start := offset + n
	end := start + length
	if end > uint32(len(h.Blob)) {
		return nil, false
	}
	return h.Blob[start:end], true
}

// decodeUTF16String decodes UTF-16LE text found outside the #US heap's
// compressed-length framing (resource names in a .resources name section
// use this form), via golang.org/x/text instead of hand rolling
// surrogate-pair handling.
func decodeUTF16String(b []byte) (string, error) {
	d := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := d.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
