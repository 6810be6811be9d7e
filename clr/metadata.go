// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"sync"

	"github.com/saferwall/clrmeta/peimage"
)

// ImageDataDirectory is the RVA and size of a table or blob referenced from
// the CLR header.
type ImageDataDirectory struct {
	VirtualAddress uint32 `json:"virtual_address"`
	Size           uint32 `json:"size"`
}

// ImageCOR20Header represents the CLR 2.0 header structure (IMAGE_COR20_HEADER),
// addressed by the IMAGE_DIRECTORY_ENTRY_COMHEADER data directory entry.
type ImageCOR20Header struct {
	Cb                      uint32             `json:"cb"`
	MajorRuntimeVersion     uint16             `json:"major_runtime_version"`
	MinorRuntimeVersion     uint16             `json:"minor_runtime_version"`
	MetaData                ImageDataDirectory `json:"meta_data"`
	Flags                   COMImageFlagsType  `json:"flags"`
	EntryPointRVAorToken    uint32             `json:"entry_point_rva_or_token"`
	Resources               ImageDataDirectory `json:"resources"`
	StrongNameSignature     ImageDataDirectory `json:"strong_name_signature"`
	CodeManagerTable        ImageDataDirectory `json:"code_manager_table"`
	VTableFixups            ImageDataDirectory `json:"vtable_fixups"`
	ExportAddressTableJumps ImageDataDirectory `json:"export_address_table_jumps"`
	ManagedNativeHeader     ImageDataDirectory `json:"managed_native_header"`
}

// MetadataHeader consists of a storage signature and a storage header, as
// defined in ECMA-335 §II.24.2.1.
type MetadataHeader struct {
	Signature     uint32 `json:"signature"`
	MajorVersion  uint16 `json:"major_version"`
	MinorVersion  uint16 `json:"minor_version"`
	ExtraData     uint32 `json:"extra_data"`
	VersionString uint32 `json:"version_string"`
	Version       string `json:"version"`
	Flags         uint8  `json:"flags"`
	Streams       uint16 `json:"streams"`
}

// MetadataStreamHeader represents a single entry of the stream directory
// that follows the metadata root header.
type MetadataStreamHeader struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Name   string `json:"name"`
}

// MetadataTable describes one of the (up to 45) tables the #~/#- stream can
// carry: how many rows it has and, once decoded, its row content.
type MetadataTable struct {
	Name      string      `json:"name"`
	CountCols uint32      `json:"count_cols"`
	Content   interface{} `json:"content"`
}

// metadataRootSignature is the magic value ("BSJB") every metadata root
// begins with.
const metadataRootSignature = 0x424A5342

// Metadata is a decoded .NET CLR metadata root: the CLI header, the
// metadata streams it points to, and the tables and heaps those streams
// carry. Construct one with Open.
type Metadata struct {
	img *peimage.Image

	CLRHeader     ImageCOR20Header
	Header        MetadataHeader
	StreamHeaders []MetadataStreamHeader
	Streams       map[string][]byte

	TableStreamHeader MetadataTableStreamHeader
	Tables            map[int]*MetadataTable
	Heaps             Heaps
	Runs              RunLists

	stringIdxSize int
	guidIdxSize   int
	blobIdxSize   int
	rowsOffset    uint32

	// colWidths caches each table kind's per-column byte-width vector,
	// computed once on first use by decodeRows and reused for every row.
	colWidths map[int][]uint32

	warn     warnFunc
	Warnings []Warning

	resourcesDir ImageDataDirectory

	tablesOnce sync.Once
	tablesErr  error

	resources     []ClrResource
	resourcesOnce sync.Once
	resourcesErr  error

	methods     []Method
	methodsOnce sync.Once
	methodsErr  error
}

// Options configures how Open decodes a module.
type Options struct {
	// LazyLoad defers decoding the tables stream and the resource list
	// until first access. Lazy fields use one-shot initializers, so a
	// *Metadata obtained with LazyLoad can be shared across goroutines
	// safely.
	LazyLoad bool

	// Warn receives every recoverable decoding problem. A nil Warn still
	// records the problem in Metadata.Warnings; it simply isn't also
	// forwarded anywhere.
	Warn func(message, context string)
}

func (md *Metadata) recordWarning(message, context string) {
	md.Warnings = append(md.Warnings, Warning{Message: message, Context: context})
	if md.warn != nil {
		md.warn(message, context)
	}
}

// ReadUint32 reads a little-endian uint32 at the given absolute file offset
// of the underlying PE image.
func (md *Metadata) ReadUint32(offset uint32) (uint32, error) {
	return md.img.ReadUint32(offset)
}

// ReadUint16 reads a little-endian uint16 at the given absolute file offset
// of the underlying PE image.
func (md *Metadata) ReadUint16(offset uint32) (uint16, error) {
	return md.img.ReadUint16(offset)
}

// ReadUint8 reads a single byte at the given absolute file offset of the
// underlying PE image.
func (md *Metadata) ReadUint8(offset uint32) (uint8, error) {
	return md.img.ReadUint8(offset)
}

func (md *Metadata) readCOR20Header(offset uint32) (ImageCOR20Header, error) {
	var h ImageCOR20Header
	var err error

	if h.Cb, err = md.ReadUint32(offset); err != nil {
		return h, err
	}
	if h.MajorRuntimeVersion, err = md.ReadUint16(offset + 4); err != nil {
		return h, err
	}
	if h.MinorRuntimeVersion, err = md.ReadUint16(offset + 6); err != nil {
		return h, err
	}
	if h.MetaData, err = md.readDataDirectory(offset + 8); err != nil {
		return h, err
	}
	flags, err := md.ReadUint32(offset + 16)
	if err != nil {
		return h, err
	}
	h.Flags = COMImageFlagsType(flags)
	if h.EntryPointRVAorToken, err = md.ReadUint32(offset + 20); err != nil {
		return h, err
	}
	if h.Resources, err = md.readDataDirectory(offset + 24); err != nil {
		return h, err
	}
	if h.StrongNameSignature, err = md.readDataDirectory(offset + 32); err != nil {
		return h, err
	}
	if h.CodeManagerTable, err = md.readDataDirectory(offset + 40); err != nil {
		return h, err
	}
	if h.VTableFixups, err = md.readDataDirectory(offset + 48); err != nil {
		return h, err
	}
	if h.ExportAddressTableJumps, err = md.readDataDirectory(offset + 56); err != nil {
		return h, err
	}
	if h.ManagedNativeHeader, err = md.readDataDirectory(offset + 64); err != nil {
		return h, err
	}
	return h, nil
}

func (md *Metadata) readDataDirectory(offset uint32) (ImageDataDirectory, error) {
	rva, err := md.ReadUint32(offset)
	if err != nil {
		return ImageDataDirectory{}, err
	}
	size, err := md.ReadUint32(offset + 4)
	if err != nil {
		return ImageDataDirectory{}, err
	}
	return ImageDataDirectory{VirtualAddress: rva, Size: size}, nil
}

// Open decodes the CLR metadata carried by img. It returns ErrNoCLRDirectory,
// ErrBadMetadataMagic, ErrTruncatedMetadata or ErrTruncatedTableHeader for
// conditions that leave nothing usable to return; any other problem
// degrades a single field or row to absent and is recorded in
// Metadata.Warnings instead of aborting.
func Open(img *peimage.Image, opts Options) (*Metadata, error) {
	dir, ok := img.DataDirectory(peimage.ImageDirectoryEntryCLR)
	if !ok || dir.VirtualAddress == 0 || dir.Size == 0 {
		return nil, ErrNoCLRDirectory
	}

	md := &Metadata{
		warn: opts.Warn,
	}

	clrOffset, ok := img.RVAToOffset(dir.VirtualAddress)
	if !ok {
		return nil, ErrNoCLRDirectory
	}
	md.img = img

	cor20, err := md.readCOR20Header(clrOffset)
	if err != nil {
		return nil, ErrNoCLRDirectory
	}
	md.CLRHeader = cor20

	if cor20.MetaData.VirtualAddress == 0 || cor20.MetaData.Size == 0 {
		return nil, ErrNoCLRDirectory
	}

	if err := md.parseMetadataRoot(cor20.MetaData); err != nil {
		return nil, err
	}

	md.resourcesDir = cor20.Resources

	if !opts.LazyLoad {
		if err := md.loadTables(); err != nil {
			return nil, err
		}
		if _, err := md.Resources(); err != nil {
			return nil, err
		}
	}

	return md, nil
}

// parseMetadataRoot decodes the metadata root header and the stream
// directory that follows it, and stashes every named stream's raw bytes.
func (md *Metadata) parseMetadataRoot(dir ImageDataDirectory) error {
	offset, ok := md.img.RVAToOffset(dir.VirtualAddress)
	if !ok {
		return ErrTruncatedMetadata
	}

	var h MetadataHeader
	var err error
	if h.Signature, err = md.ReadUint32(offset); err != nil {
		return ErrTruncatedMetadata
	}
	if h.Signature != metadataRootSignature {
		return ErrBadMetadataMagic
	}
	if h.MajorVersion, err = md.ReadUint16(offset + 4); err != nil {
		return ErrTruncatedMetadata
	}
	if h.MinorVersion, err = md.ReadUint16(offset + 6); err != nil {
		return ErrTruncatedMetadata
	}
	if h.ExtraData, err = md.ReadUint32(offset + 8); err != nil {
		return ErrTruncatedMetadata
	}
	if h.VersionString, err = md.ReadUint32(offset + 12); err != nil {
		return ErrTruncatedMetadata
	}
	versionBytes, err := md.img.ReadBytes(offset+16, h.VersionString)
	if err != nil {
		return ErrTruncatedMetadata
	}
	h.Version = trimNUL(versionBytes)

	pos := offset + 16 + h.VersionString
	if h.Flags, err = md.ReadUint8(pos); err != nil {
		return ErrTruncatedMetadata
	}
	if h.Streams, err = md.ReadUint16(pos + 2); err != nil {
		return ErrTruncatedMetadata
	}
	pos += 4
	md.Header = h

	md.Streams = make(map[string][]byte)
	var tableStreamOffset, tableStreamSize uint32
	for i := uint16(0); i < h.Streams; i++ {
		sh := MetadataStreamHeader{}
		if sh.Offset, err = md.ReadUint32(pos); err != nil {
			return ErrTruncatedMetadata
		}
		if sh.Size, err = md.ReadUint32(pos + 4); err != nil {
			return ErrTruncatedMetadata
		}
		pos += 8

		// The stream name is a NUL-terminated ASCII string, padded to a
		// 4-byte boundary.
		nameStart := pos
		for {
			c, err := md.ReadUint8(pos)
			if err != nil {
				return ErrTruncatedMetadata
			}
			pos++
			if c == 0 && (pos-nameStart)%4 == 0 {
				break
			}
		}
		nameBytes, _ := md.img.ReadBytes(nameStart, pos-nameStart)
		sh.Name = trimNUL(nameBytes)

		streamOffset := offset + sh.Offset
		data, err := md.img.ReadBytes(streamOffset, sh.Size)
		if err != nil {
			md.recordWarning("truncated metadata stream", sh.Name)
			data = nil
		}
		md.Streams[sh.Name] = data
		md.StreamHeaders = append(md.StreamHeaders, sh)

		switch sh.Name {
		case "#Strings":
			md.Heaps.Strings = data
		case "#US":
			md.Heaps.US = data
		case "#GUID":
			md.Heaps.GUID = data
		case "#Blob":
			md.Heaps.Blob = data
		case "#~", "#-", "#Schema":
			// When more than one tables stream header is present, the last
			// one in stream order wins, matching how the runtime resolves
			// the shortcut accessor for any duplicated stream name.
			tableStreamOffset = streamOffset
			tableStreamSize = sh.Size
		}
	}

	if tableStreamSize == 0 {
		return ErrTruncatedTableHeader
	}
	return md.parseTableStreamHeader(tableStreamOffset, tableStreamSize)
}

func trimNUL(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
