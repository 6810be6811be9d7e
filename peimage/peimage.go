// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package peimage is a thin PE/COFF container reader. It exposes only what a
// CLI metadata decoder needs from the surrounding PE image: section-relative
// address translation, bounded slice reads, and data directory lookups. Full
// PE introspection (imports, exports, resources, overlays, signing, ...) is
// out of scope here; see github.com/saferwall/pe for that.
package peimage

// Image executable signatures.
const (
	// The DOS MZ executable format is the executable file format used
	// for .EXE files in DOS.
	ImageDOSSignature = 0x5A4D // MZ

	// The Portable Executable (PE) format is a file format for executables,
	// object code, DLLs and others used in 32-bit and 64-bit versions of
	// Windows operating systems.
	ImageNTSignature = 0x00004550 // PE00
)

// Optional header magic values.
const (
	ImageNtOptionalHeader32Magic = 0x10b
	ImageNtOptionalHeader64Magic = 0x20b
)

// ImageDirectoryEntry identifies an entry inside the optional header's data
// directory array.
type ImageDirectoryEntry int

// Data directory indices relevant to CLR metadata decoding.
const (
	ImageDirectoryEntryExport      ImageDirectoryEntry = iota // Export Table
	ImageDirectoryEntryImport                                 // Import Table
	ImageDirectoryEntryResource                               // Resource Table
	ImageDirectoryEntryException                              // Exception Table
	ImageDirectoryEntryCertificate                            // Certificate Directory
	ImageDirectoryEntryBaseReloc                               // Base Relocation Table
	ImageDirectoryEntryDebug                                   // Debug
	ImageDirectoryEntryArchitecture                            // Architecture Specific Data
	ImageDirectoryEntryGlobalPtr                               // RVA of the value to store in the global pointer register
	ImageDirectoryEntryTLS                                     // Thread local storage (TLS) table
	ImageDirectoryEntryLoadConfig                              // The load configuration table
	ImageDirectoryEntryBoundImport                             // The bound import table
	ImageDirectoryEntryIAT                                     // Import Address Table
	ImageDirectoryEntryDelayImport                             // Delay Import Descriptor
	ImageDirectoryEntryCLR                                     // CLR Runtime Header
	ImageDirectoryEntryReserved                                // Must be zero
	ImageNumberOfDirectoryEntries                              // Tables count
)

// IsBitSet returns true when the bit at pos is set in n.
func IsBitSet(n uint64, pos int) bool {
	return n&(1<<uint(pos)) != 0
}
