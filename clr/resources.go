// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

import "encoding/binary"

// ManifestResourceAttributes visibility bits (ECMA-335 §II.23.1.9).
const (
	manifestResourceVisibilityMask = 0x7
	manifestResourcePublic         = 0x1
)

// resourceSetMagic is the signature BinaryFormatter writes at the start of
// an internal resource's payload when it is a serialized .resources
// ResourceSet (System.Resources.ResourceReader's on-disk format).
const resourceSetMagic = 0xBEEFCACE

// ResourceKind discriminates the three concrete shapes a ClrResource can
// take, mirroring the Implementation coded index on its ManifestResource
// row: null means the payload lives inside this module; a File or
// AssemblyRef target means it lives elsewhere.
type ResourceKind int

const (
	// ResourceInternal is embedded in this module's own resources data
	// directory.
	ResourceInternal ResourceKind = iota
	// ResourceFile lives in another file of the same assembly.
	ResourceFile
	// ResourceAssemblyRef lives in a different assembly entirely.
	ResourceAssemblyRef
)

// ResourceEntry is one named, typed value decoded out of an internal
// resource's ResourceSet payload.
type ResourceEntry struct {
	Name string
	Type string // e.g. "System.String", "System.DateTime"

	// Exactly one of these is populated, selected by Type.
	String   string
	DateTime ResourceDateTime
	Raw      []byte // any type this decoder doesn't special-case
}

// ResourceDateTime is a .NET DateTime value: 100-nanosecond ticks since
// 0001-01-01 plus a DateTimeKind, packed into the same 64-bit field. The
// top 2 bits carry Kind; they are stripped from Ticks rather than left to
// corrupt the timestamp.
type ResourceDateTime struct {
	Ticks uint64
	Kind  uint8 // 0 = Unspecified, 1 = Utc, 2 = Local
}

// ClrResource is a decoded ManifestResource row. Internal carries the
// parsed payload when one was found and recognized; File and AssemblyRef
// carry only the cross-reference, since resolving them requires a
// different module or file than the one being decoded.
type ClrResource struct {
	Name     string
	Public   bool
	Kind     ResourceKind
	RowIndex uint32

	Internal *InternalResource
	File     *FileReference
	Assembly *AssemblyReference
}

// InternalResource is a ManifestResource whose bytes live in this module's
// own resources data directory.
type InternalResource struct {
	Size    uint32
	Entries []ResourceEntry // nil if the payload wasn't a recognized ResourceSet
	Raw     []byte
}

// FileReference points at another file of the same assembly, via the File
// table.
type FileReference struct {
	FileIndex uint32
	FileName  string
	HashValue []byte
}

// AssemblyReference points at a different assembly, via the AssemblyRef
// table.
type AssemblyReference struct {
	AssemblyRefIndex uint32
	AssemblyName     string
}

// Resources decodes every ManifestResource row into a ClrResource,
// classifying it by its Implementation coded index and, for internal
// resources, parsing the embedded .resources payload when present. The
// result is cached: later calls are free.
func (md *Metadata) Resources() ([]ClrResource, error) {
	md.resourcesOnce.Do(func() {
		md.resourcesErr = md.loadResources()
	})
	return md.resources, md.resourcesErr
}

func (md *Metadata) loadResources() error {
	if err := md.loadTables(); err != nil {
		return err
	}

	t, ok := md.Tables[ManifestResource]
	if !ok {
		return nil
	}
	rows, ok := t.Content.([]ManifestResourceTableRow)
	if !ok {
		return nil
	}

	fileNames := map[uint32]FileTableRow{}
	if ft, ok := md.Tables[FileMD]; ok {
		if fileRows, ok := ft.Content.([]FileTableRow); ok {
			for i, r := range fileRows {
				fileNames[uint32(i+1)] = r
			}
		}
	}
	assemblyRefNames := map[uint32]AssemblyRefTableRow{}
	if at, ok := md.Tables[AssemblyRef]; ok {
		if refRows, ok := at.Content.([]AssemblyRefTableRow); ok {
			for i, r := range refRows {
				assemblyRefNames[uint32(i+1)] = r
			}
		}
	}

	resources := make([]ClrResource, len(rows))
	for i, r := range rows {
		res := ClrResource{
			Name:     md.String(r.Name),
			Public:   r.Flags&manifestResourceVisibilityMask == manifestResourcePublic,
			RowIndex: uint32(i + 1),
		}

		ref := md.ResolveImplementation(r.Implementation)
		switch {
		case r.Implementation == 0:
			res.Kind = ResourceInternal
			res.Internal = md.readInternalResource(r.Offset)
		case ref.Ok && ref.Table == FileMD:
			res.Kind = ResourceFile
			file := fileNames[ref.Row]
			res.File = &FileReference{
				FileIndex: ref.Row,
				FileName:  md.String(file.Name),
				HashValue: md.Blob(file.HashValue),
			}
		case ref.Ok && ref.Table == AssemblyRef:
			res.Kind = ResourceAssemblyRef
			asm := assemblyRefNames[ref.Row]
			res.Assembly = &AssemblyReference{
				AssemblyRefIndex: ref.Row,
				AssemblyName:     md.String(asm.Name),
			}
		default:
			md.recordWarning("unresolvable manifest resource implementation", res.Name)
			res.Kind = ResourceInternal
		}

		resources[i] = res
	}

	md.resources = resources
	return nil
}

// readInternalResource locates an internal resource's bytes at
// resourcesDirRVA+offset: a 4-byte little-endian size prefix followed by
// that many bytes of payload. A BEEFCACE-prefixed payload is a serialized
// ResourceSet and is decoded further; anything else is kept raw.
func (md *Metadata) readInternalResource(offset uint32) *InternalResource {
	if md.resourcesDir.VirtualAddress == 0 {
		md.recordWarning("internal resource with no resources directory", "")
		return nil
	}
	fileOffset, ok := md.img.RVAToOffset(md.resourcesDir.VirtualAddress)
	if !ok {
		md.recordWarning("resources directory RVA out of range", "")
		return nil
	}
	fileOffset += offset

	size, err := md.ReadUint32(fileOffset)
	if err != nil {
		md.recordWarning("truncated internal resource size prefix", "")
		return nil
	}
	data, err := md.img.ReadBytes(fileOffset+4, size)
	if err != nil {
		md.recordWarning("truncated internal resource payload", "")
		return nil
	}

	ir := &InternalResource{Size: size, Raw: data}
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == resourceSetMagic {
		entries, err := md.parseResourceSet(data)
		if err != nil {
			md.recordWarning("malformed .resources payload", err.Error())
		} else {
			ir.Entries = entries
		}
	}
	return ir
}
