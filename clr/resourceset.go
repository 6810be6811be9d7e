// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"encoding/binary"
	"errors"
	"sort"
)

// Resource type codes .NET's ResourceReader assigns to built-in types.
// User-defined types (read via the reader-types blob) start at 64 and
// aren't decoded here beyond their raw bytes.
const (
	resourceTypeNull     = 0
	resourceTypeString   = 1
	resourceTypeDateTime = 15
)

var errMalformedResourceSet = errors.New("resourceset: malformed header")

// read7BitEncodedInt decodes the variable-length integer BinaryFormatter
// and ResourceReader both use for string lengths and type indices: 7 bits
// of value per byte, continuation in the high bit, little-endian.
func read7BitEncodedInt(data []byte, off int) (int, int, bool) {
	var result, shift uint32
	for i := 0; i < 5; i++ {
		if off+i >= len(data) {
			return 0, 0, false
		}
		b := data[off+i]
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return int(result), i + 1, true
		}
		shift += 7
	}
	return 0, 0, false
}

func readBCLString(data []byte, off int) (string, int, bool) {
	length, n, ok := read7BitEncodedInt(data, off)
	if !ok || off+n+length > len(data) {
		return "", 0, false
	}
	start := off + n
	return string(data[start : start+length]), n + length, true
}

// parseResourceSet decodes the BinaryFormatter .resources layout: a header
// naming the reader/resource-set types, a type table for non-primitive
// resource values, an 8-byte-aligned name-hash table, a name-pointer
// table, the data section's absolute offset, the name section itself, and
// finally the data section.
func (md *Metadata) parseResourceSet(data []byte) ([]ResourceEntry, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data) != resourceSetMagic {
		return nil, errMalformedResourceSet
	}
	pos := 4

	if pos+8 > len(data) {
		return nil, errMalformedResourceSet
	}
	// The resource-manager header version comes first; the byte length of
	// the reader/resource-set type name blob follows it.
	pos += 4
	readerHeaderLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	readerBlobEnd := pos + readerHeaderLen
	if readerBlobEnd > len(data) {
		return nil, errMalformedResourceSet
	}
	// The reader/resource-set type name blob itself isn't needed beyond
	// its declared length, which is what lets us skip it.
	pos = readerBlobEnd

	if pos+12 > len(data) {
		return nil, errMalformedResourceSet
	}
	version := int32(binary.LittleEndian.Uint32(data[pos:]))
	_ = version
	pos += 4
	numResources := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	numTypes := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4

	for i := 0; i < numTypes; i++ {
		_, n, ok := readBCLString(data, pos)
		if !ok {
			return nil, errMalformedResourceSet
		}
		pos += n
	}

	// Name hashes begin on an 8-byte boundary.
	if rem := pos % 8; rem != 0 {
		pos += 8 - rem
	}

	hashesEnd := pos + 4*numResources
	if hashesEnd > len(data) {
		return nil, errMalformedResourceSet
	}
	pos = hashesEnd

	namePositions := make([]int32, numResources)
	for i := 0; i < numResources; i++ {
		if pos+4 > len(data) {
			return nil, errMalformedResourceSet
		}
		namePositions[i] = int32(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4
	}

	if pos+4 > len(data) {
		return nil, errMalformedResourceSet
	}
	dataSectionOffset := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	nameSectionStart := pos

	type nameEntry struct {
		name       string
		dataOffset int
	}
	entries := make([]nameEntry, 0, numResources)
	for i := 0; i < numResources; i++ {
		p := nameSectionStart + int(namePositions[i])
		length, n, ok := read7BitEncodedInt(data, p)
		if !ok {
			return nil, errMalformedResourceSet
		}
		nameStart := p + n
		nameEnd := nameStart + length
		if nameEnd+4 > len(data) {
			return nil, errMalformedResourceSet
		}
		name, err := decodeUTF16String(data[nameStart:nameEnd])
		if err != nil {
			return nil, errMalformedResourceSet
		}
		dataOffset := int(binary.LittleEndian.Uint32(data[nameEnd:]))
		entries = append(entries, nameEntry{name: name, dataOffset: dataOffset})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].dataOffset < entries[j].dataOffset })

	result := make([]ResourceEntry, 0, numResources)
	for i, e := range entries {
		start := dataSectionOffset + e.dataOffset
		end := len(data)
		if i+1 < len(entries) {
			end = dataSectionOffset + entries[i+1].dataOffset
		}
		if start > len(data) || end > len(data) || start > end {
			// The computed data range falls outside the payload; keep the
			// entry rather than shrinking the set below NumberOfResources,
			// with whatever of the payload can still be salvaged from start.
			md.recordWarning("resource entry data range out of bounds", e.name)
			raw := []byte(nil)
			if start >= 0 && start < len(data) {
				raw = data[start:]
			}
			result = append(result, ResourceEntry{Name: e.name, Type: "unknown", Raw: raw})
			continue
		}
		result = append(result, decodeResourceValue(e.name, data[start:end]))
	}
	return result, nil
}

func decodeResourceValue(name string, raw []byte) ResourceEntry {
	entry := ResourceEntry{Name: name}
	typeIdx, n, ok := read7BitEncodedInt(raw, 0)
	if !ok {
		entry.Type = "unknown"
		entry.Raw = raw
		return entry
	}
	payload := raw[n:]

	switch typeIdx {
	case resourceTypeNull:
		entry.Type = "null"
	case resourceTypeString:
		s, _, ok := readBCLString(payload, 0)
		entry.Type = "System.String"
		if ok {
			entry.String = s
		}
	case resourceTypeDateTime:
		entry.Type = "System.DateTime"
		if len(payload) >= 8 {
			raw64 := binary.LittleEndian.Uint64(payload)
			// The top two bits of the 64-bit field carry DateTimeKind;
			// the remaining 62 bits are the tick count.
			entry.DateTime = ResourceDateTime{
				Ticks: raw64 &^ (uint64(3) << 62),
				Kind:  uint8(raw64 >> 62),
			}
		}
	default:
		entry.Type = "unknown"
		entry.Raw = payload
	}
	return entry
}
