// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/saferwall/clrmeta/peimage"
)

// padStreamName pads a metadata stream name with at least one NUL and rounds
// up to the next 4-byte boundary, the way every real metadata root does.
func padStreamName(name string) []byte {
	b := append([]byte(name), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// u16/u32 append little-endian integers to a buffer; used throughout the
// builder below so the layout reads top to bottom like the format it mimics.
func u16(buf *bytes.Buffer, v uint16) { binary.Write(buf, binary.LittleEndian, v) }
func u32(buf *bytes.Buffer, v uint32) { binary.Write(buf, binary.LittleEndian, v) }

// buildMinimalModule assembles, byte for byte, the smallest PE image that
// carries a CLR directory and a complete metadata root: one Module, one
// TypeDef owning one Field and one MethodDef. Every data directory and
// stream offset is computed from the buffer as it grows rather than
// hardcoded, since a sectionless image maps RVAs directly onto file offsets.
func buildMinimalModule(t *testing.T) []byte {
	t.Helper()

	// --- heaps ---
	strings := []byte{0x00}
	strings = append(strings, []byte("Test.dll\x00")...)
	// Row-level name offsets, relative to the #Strings heap.
	moduleNameOff := uint32(1)

	guid := make([]byte, 16) // one all-zero GUID record, index 1.

	blob := []byte{0x00}
	us := []byte{0x00}

	// --- tables stream ---
	var rows bytes.Buffer
	// Module: Generation(u16) Name(u16) Mvid(u16) EncID(u16) EncBaseID(u16)
	u16(&rows, 0)
	u16(&rows, uint16(moduleNameOff))
	u16(&rows, 1) // Mvid -> GUID index 1
	u16(&rows, 0)
	u16(&rows, 0)
	// TypeDef: Flags(u32) TypeName(u16) TypeNamespace(u16) Extends(u16) FieldList(u16) MethodList(u16)
	u32(&rows, 0)
	u16(&rows, 0) // TypeName absent
	u16(&rows, 0) // TypeNamespace absent
	u16(&rows, 0) // Extends absent (TypeDefOrRef tag 0, row 0)
	u16(&rows, 1) // FieldList -> Field row 1
	u16(&rows, 1) // MethodList -> MethodDef row 1
	// Field: Flags(u16) Name(u16) Signature(u16)
	u16(&rows, 0x0006) // private, static-less plain field
	u16(&rows, 0)
	u16(&rows, 0)
	// MethodDef: RVA(u32) ImplFlags(u16) Flags(u16) Name(u16) Signature(u16) ParamList(u16)
	u32(&rows, 0x2050)
	u16(&rows, 0)
	u16(&rows, 0x0006)
	u16(&rows, 0)
	u16(&rows, 0)
	u16(&rows, 1) // ParamList -> Param row 1, but no Param table present

	var tableStream bytes.Buffer
	u32(&tableStream, 0)    // Reserved
	tableStream.WriteByte(2) // MajorVersion
	tableStream.WriteByte(0) // MinorVersion
	tableStream.WriteByte(0) // Heaps: all heaps small
	tableStream.WriteByte(1) // RID
	// MaskValid: bits 0 (Module), 2 (TypeDef), 4 (Field), 6 (MethodDef)
	maskValid := uint64(1)<<Module | uint64(1)<<TypeDef | uint64(1)<<Field | uint64(1)<<MethodDef
	u32(&tableStream, uint32(maskValid))
	u32(&tableStream, uint32(maskValid>>32))
	u32(&tableStream, 0) // Sorted low
	u32(&tableStream, 0) // Sorted high
	// Row counts, ascending bit order.
	u32(&tableStream, 1) // Module
	u32(&tableStream, 1) // TypeDef
	u32(&tableStream, 1) // Field
	u32(&tableStream, 1) // MethodDef
	tableStream.Write(rows.Bytes())

	// --- metadata root ---
	version := append([]byte("v4.0.30319"), 0, 0) // 12 bytes, multiple of 4
	type streamDef struct {
		name string
		data []byte
	}
	streamOrder := []streamDef{
		{"#Strings", strings},
		{"#US", us},
		{"#GUID", guid},
		{"#Blob", blob},
		{"#~", tableStream.Bytes()},
	}

	// First pass: compute each stream's relative offset, now that every
	// stream header's fixed 8-byte prefix plus padded name length is known.
	headerLen := 0
	for _, s := range streamOrder {
		headerLen += 8 + len(padStreamName(s.name))
	}
	rootBodyBeforeStreams := 16 + len(version) + 4 // header fields + version + flags/streams
	relOff := rootBodyBeforeStreams + headerLen
	offsets := make([]int, len(streamOrder))
	for i, s := range streamOrder {
		offsets[i] = relOff
		relOff += len(s.data)
	}

	var root bytes.Buffer
	u32(&root, metadataRootSignature)
	u16(&root, 1) // MajorVersion
	u16(&root, 1) // MinorVersion
	u32(&root, 0) // ExtraData
	u32(&root, uint32(len(version)))
	root.Write(version)
	root.WriteByte(0) // Flags
	root.WriteByte(0) // reserved padding byte
	u16(&root, uint16(len(streamOrder)))
	for i, s := range streamOrder {
		u32(&root, uint32(offsets[i]))
		u32(&root, uint32(len(s.data)))
		root.Write(padStreamName(s.name))
	}
	for _, s := range streamOrder {
		root.Write(s.data)
	}

	// --- COR20 header ---
	var cor bytes.Buffer
	u32(&cor, 0x48) // Cb
	u16(&cor, 2)    // MajorRuntimeVersion
	u16(&cor, 5)    // MinorRuntimeVersion
	// MetaData directory: patched once the root's absolute file offset is known.
	metaDataDirPos := cor.Len()
	u32(&cor, 0)
	u32(&cor, 0)
	u32(&cor, 0x1) // Flags: COMImageFlagsILOnly
	u32(&cor, 0)   // EntryPointRVAorToken
	for i := 0; i < 6; i++ {
		u32(&cor, 0)
		u32(&cor, 0)
	}

	// --- assemble the file ---
	var buf bytes.Buffer

	// DOS header: 64 bytes, only Magic and e_lfanew matter.
	dos := make([]byte, 64)
	binary.LittleEndian.PutUint16(dos[0:], peimage.ImageDOSSignature)
	binary.LittleEndian.PutUint32(dos[60:], 64)
	buf.Write(dos)

	u32(&buf, peimage.ImageNTSignature)
	// File header.
	u16(&buf, 0x14c) // Machine: I386
	u16(&buf, 0)     // NumberOfSections
	u32(&buf, 0)     // TimeDateStamp
	u32(&buf, 0)     // PointerToSymbolTable
	u32(&buf, 0)     // NumberOfSymbols
	u16(&buf, 224)   // SizeOfOptionalHeader
	u16(&buf, 0x0102)
	// Optional header (PE32, 224 bytes total).
	optHeaderOffset := uint32(buf.Len())
	u16(&buf, peimage.ImageNtOptionalHeader32Magic)
	buf.WriteByte(0) // MajorLinkerVersion
	buf.WriteByte(0) // MinorLinkerVersion
	for i := 0; i < 7; i++ {
		u32(&buf, 0) // SizeOfCode .. ImageBase
	}
	u32(&buf, 0) // SectionAlignment
	u32(&buf, 0) // FileAlignment
	for i := 0; i < 6; i++ {
		u16(&buf, 0) // OS/Image/Subsystem versions
	}
	u32(&buf, 0) // Win32VersionValue
	u32(&buf, 0) // SizeOfImage
	u32(&buf, 0) // SizeOfHeaders
	u32(&buf, 0) // CheckSum
	u16(&buf, 2) // Subsystem: console
	u16(&buf, 0) // DllCharacteristics
	for i := 0; i < 4; i++ {
		u32(&buf, 0) // stack/heap reserve/commit
	}
	u32(&buf, 0)  // LoaderFlags
	u32(&buf, 16) // NumberOfRvaAndSizes
	dataDirOffset := uint32(buf.Len())
	for i := 0; i < 16; i++ {
		u32(&buf, 0)
		u32(&buf, 0)
	}
	if uint32(buf.Len())-optHeaderOffset != 224 {
		t.Fatalf("optional header size drifted: got %d, want 224", uint32(buf.Len())-optHeaderOffset)
	}

	corOffset := uint32(buf.Len())
	buf.Write(cor.Bytes())

	rootOffset := uint32(buf.Len())
	buf.Write(root.Bytes())

	out := buf.Bytes()

	// Patch the CLR data directory entry (index 14) to point at the COR20 header.
	clrEntryOffset := dataDirOffset + uint32(peimage.ImageDirectoryEntryCLR)*8
	binary.LittleEndian.PutUint32(out[clrEntryOffset:], corOffset)
	binary.LittleEndian.PutUint32(out[clrEntryOffset+4:], uint32(cor.Len()))

	// Patch the COR20 header's MetaData directory to point at the root.
	binary.LittleEndian.PutUint32(out[corOffset+uint32(metaDataDirPos):], rootOffset)
	binary.LittleEndian.PutUint32(out[corOffset+uint32(metaDataDirPos)+4:], uint32(root.Len()))

	return out
}

func openMinimalModule(t *testing.T) *Metadata {
	t.Helper()
	raw := buildMinimalModule(t)
	img, err := peimage.OpenBytes(raw, peimage.Options{})
	if err != nil {
		t.Fatalf("peimage.OpenBytes failed: %v", err)
	}
	md, err := Open(img, Options{})
	if err != nil {
		t.Fatalf("clr.Open failed: %v", err)
	}
	return md
}

func TestOpenParsesMetadataRoot(t *testing.T) {
	md := openMinimalModule(t)

	if md.Header.Version != "v4.0.30319" {
		t.Errorf("metadata root version = %q, want v4.0.30319", md.Header.Version)
	}
	if len(md.Warnings) != 0 {
		t.Errorf("unexpected warnings decoding a well-formed module: %v", md.Warnings)
	}
}

func TestOpenParsesModuleTable(t *testing.T) {
	md := openMinimalModule(t)

	tbl, ok := md.Tables[Module]
	if !ok {
		t.Fatal("Module table missing")
	}
	rows, ok := tbl.Content.([]ModuleTableRow)
	if !ok || len(rows) != 1 {
		t.Fatalf("Module table content = %#v, want one ModuleTableRow", tbl.Content)
	}
	if got := md.String(rows[0].Name); got != "Test.dll" {
		t.Errorf("module name = %q, want Test.dll", got)
	}
	if g, present := md.GUID(rows[0].Mvid); !present || g != ([16]byte{}) {
		t.Errorf("module Mvid = %x, present=%v, want all-zero GUID present", g, present)
	}
}

func TestOpenBuildsTypeDefRuns(t *testing.T) {
	md := openMinimalModule(t)

	run, ok := md.Runs.TypeDefFields[1]
	if !ok || run != (Run{Start: 1, End: 2}) {
		t.Errorf("TypeDefFields[1] = %+v, ok=%v, want {1 2} true", run, ok)
	}
	run, ok = md.Runs.TypeDefMethods[1]
	if !ok || run != (Run{Start: 1, End: 2}) {
		t.Errorf("TypeDefMethods[1] = %+v, ok=%v, want {1 2} true", run, ok)
	}
}

func TestOpenDecodesMethods(t *testing.T) {
	md := openMinimalModule(t)

	methods, err := md.Methods()
	if err != nil {
		t.Fatalf("Methods() failed: %v", err)
	}
	if len(methods) != 1 {
		t.Fatalf("len(methods) = %d, want 1", len(methods))
	}
	m := methods[0]
	if m.Kind != MethodInternal {
		t.Errorf("method kind = %v, want MethodInternal", m.Kind)
	}
	if m.RVA != 0x2050 {
		t.Errorf("method RVA = %#x, want 0x2050", m.RVA)
	}
}

func TestOpenNoResourcesWithoutManifest(t *testing.T) {
	md := openMinimalModule(t)

	resources, err := md.Resources()
	if err != nil {
		t.Fatalf("Resources() failed: %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("len(resources) = %d, want 0 (no ManifestResource table)", len(resources))
	}
}

func TestOpenRejectsImageWithNoCLRDirectory(t *testing.T) {
	raw := buildMinimalModule(t)
	// Zero out the CLR data directory entry so the image looks like a
	// plain native PE.
	dataDirOffset := uint32(64+4+20) + 96
	clrEntryOffset := dataDirOffset + uint32(peimage.ImageDirectoryEntryCLR)*8
	binary.LittleEndian.PutUint32(raw[clrEntryOffset:], 0)
	binary.LittleEndian.PutUint32(raw[clrEntryOffset+4:], 0)

	img, err := peimage.OpenBytes(raw, peimage.Options{})
	if err != nil {
		t.Fatalf("peimage.OpenBytes failed: %v", err)
	}
	if _, err := Open(img, Options{}); err != ErrNoCLRDirectory {
		t.Errorf("Open() error = %v, want ErrNoCLRDirectory", err)
	}
}

func TestOpenLazyLoadDefersTables(t *testing.T) {
	raw := buildMinimalModule(t)
	img, err := peimage.OpenBytes(raw, peimage.Options{})
	if err != nil {
		t.Fatalf("peimage.OpenBytes failed: %v", err)
	}
	md, err := Open(img, Options{LazyLoad: true})
	if err != nil {
		t.Fatalf("clr.Open failed: %v", err)
	}
	if md.Tables[Module].Content != nil {
		t.Errorf("lazy-loaded module has table content before first access")
	}
	if err := md.loadTables(); err != nil {
		t.Fatalf("loadTables failed: %v", err)
	}
	if md.Tables[Module].Content == nil {
		t.Errorf("loadTables did not populate Module table content")
	}
}
