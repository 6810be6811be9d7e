// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package peimage

import "encoding/binary"

// ImageFileHeader contains information about the physical layout and
// properties of the file.
type ImageFileHeader struct {
	Machine              uint16 `json:"machine"`
	NumberOfSections     uint16 `json:"number_of_sections"`
	TimeDateStamp        uint32 `json:"time_date_stamp"`
	PointerToSymbolTable uint32 `json:"pointer_to_symbol_table"`
	NumberOfSymbols      uint32 `json:"number_of_symbols"`
	SizeOfOptionalHeader uint16 `json:"size_of_optional_header"`
	Characteristics      uint16 `json:"characteristics"`
}

// DataDirectory is the RVA and size of a table or a string that a particular
// directory entry describes.
type DataDirectory struct {
	VirtualAddress uint32 `json:"virtual_address"`
	Size           uint32 `json:"size"`
}

// ImageOptionalHeader32 is the PE32 format of the optional header.
type ImageOptionalHeader32 struct {
	Magic                       uint16 `json:"magic"`
	MajorLinkerVersion          uint8  `json:"major_linker_version"`
	MinorLinkerVersion          uint8  `json:"minor_linker_version"`
	SizeOfCode                  uint32 `json:"size_of_code"`
	SizeOfInitializedData       uint32 `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32 `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32 `json:"address_of_entrypoint"`
	BaseOfCode                  uint32 `json:"base_of_code"`
	BaseOfData                  uint32 `json:"base_of_data"`
	ImageBase                   uint32 `json:"image_base"`
	SectionAlignment             uint32 `json:"section_alignment"`
	FileAlignment                uint32 `json:"file_alignment"`
	MajorOperatingSystemVersion uint16 `json:"major_os_version"`
	MinorOperatingSystemVersion uint16 `json:"minor_os_version"`
	MajorImageVersion            uint16 `json:"major_image_version"`
	MinorImageVersion            uint16 `json:"minor_image_version"`
	MajorSubsystemVersion        uint16 `json:"major_subsystem_version"`
	MinorSubsystemVersion        uint16 `json:"minor_subsystem_version"`
	Win32VersionValue             uint32 `json:"win32_version_value"`
	SizeOfImage                   uint32 `json:"size_of_image"`
	SizeOfHeaders                 uint32 `json:"size_of_headers"`
	CheckSum                       uint32 `json:"checksum"`
	Subsystem                      uint16 `json:"subsystem"`
	DllCharacteristics              uint16 `json:"dll_characteristics"`
	SizeOfStackReserve              uint32 `json:"size_of_stack_reserve"`
	SizeOfStackCommit               uint32 `json:"size_of_stack_commit"`
	SizeOfHeapReserve               uint32 `json:"size_of_heap_reserve"`
	SizeOfHeapCommit                uint32 `json:"size_of_heap_commit"`
	LoaderFlags                     uint32 `json:"loader_flags"`
	NumberOfRvaAndSizes              uint32 `json:"number_of_rva_and_sizes"`
	DataDirectory                    [16]DataDirectory `json:"data_directories"`
}

// ImageOptionalHeader64 is the PE32+ format of the optional header.
type ImageOptionalHeader64 struct {
	Magic                       uint16 `json:"magic"`
	MajorLinkerVersion          uint8  `json:"major_linker_version"`
	MinorLinkerVersion          uint8  `json:"minor_linker_version"`
	SizeOfCode                  uint32 `json:"size_of_code"`
	SizeOfInitializedData       uint32 `json:"size_of_initialized_data"`
	SizeOfUninitializedData     uint32 `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint         uint32 `json:"address_of_entrypoint"`
	BaseOfCode                  uint32 `json:"base_of_code"`
	ImageBase                   uint64 `json:"image_base"`
	SectionAlignment             uint32 `json:"section_alignment"`
	FileAlignment                 uint32 `json:"file_alignment"`
	MajorOperatingSystemVersion uint16 `json:"major_os_version"`
	MinorOperatingSystemVersion uint16 `json:"minor_os_version"`
	MajorImageVersion            uint16 `json:"major_image_version"`
	MinorImageVersion            uint16 `json:"minor_image_version"`
	MajorSubsystemVersion        uint16 `json:"major_subsystem_version"`
	MinorSubsystemVersion        uint16 `json:"minor_subsystem_version"`
	Win32VersionValue             uint32 `json:"win32_version_value"`
	SizeOfImage                   uint32 `json:"size_of_image"`
	SizeOfHeaders                 uint32 `json:"size_of_headers"`
	CheckSum                       uint32 `json:"checksum"`
	Subsystem                      uint16 `json:"subsystem"`
	DllCharacteristics              uint16 `json:"dll_characteristics"`
	SizeOfStackReserve              uint64 `json:"size_of_stack_reserve"`
	SizeOfStackCommit               uint64 `json:"size_of_stack_commit"`
	SizeOfHeapReserve               uint64 `json:"size_of_heap_reserve"`
	SizeOfHeapCommit                uint64 `json:"size_of_heap_commit"`
	LoaderFlags                     uint32 `json:"loader_flags"`
	NumberOfRvaAndSizes              uint32 `json:"number_of_rva_and_sizes"`
	DataDirectory                    [16]DataDirectory `json:"data_directories"`
}

// ImageNtHeader is the general term for the structure named IMAGE_NT_HEADERS.
type ImageNtHeader struct {
	Signature      uint32 `json:"signature"`
	FileHeader     ImageFileHeader `json:"file_header"`
	OptionalHeader interface{}     `json:"optional_header"`
}

// parseNTHeader parses the PE NT header, whose offset is given by e_lfanew
// in the DOS header.
func (img *Image) parseNTHeader() error {
	ntHeaderOffset := img.DOSHeader.AddressOfNewEXEHeader
	signature, err := img.ReadUint32(ntHeaderOffset)
	if err != nil {
		return ErrInvalidNtHeaderOffset
	}
	if signature != ImageNTSignature {
		return ErrImageNtSignatureNotFound
	}
	img.NtHeader.Signature = signature

	fileHeaderSize := uint32(binary.Size(img.NtHeader.FileHeader))
	fileHeaderOffset := ntHeaderOffset + 4
	if err := img.structUnpack(&img.NtHeader.FileHeader, fileHeaderOffset, fileHeaderSize); err != nil {
		return err
	}

	optHeaderOffset := ntHeaderOffset + fileHeaderSize + 4
	magic, err := img.ReadUint16(optHeaderOffset)
	if err != nil {
		return err
	}
	if magic != ImageNtOptionalHeader32Magic && magic != ImageNtOptionalHeader64Magic {
		return ErrImageNtOptionalHeaderMagicNotFound
	}

	switch magic {
	case ImageNtOptionalHeader64Magic:
		oh64 := ImageOptionalHeader64{}
		size := uint32(binary.Size(oh64))
		if err := img.structUnpack(&oh64, optHeaderOffset, size); err != nil {
			return err
		}
		img.is64 = true
		img.NtHeader.OptionalHeader = oh64
	case ImageNtOptionalHeader32Magic:
		oh32 := ImageOptionalHeader32{}
		size := uint32(binary.Size(oh32))
		if err := img.structUnpack(&oh32, optHeaderOffset, size); err != nil {
			return err
		}
		img.NtHeader.OptionalHeader = oh32
	}

	return nil
}

func (img *Image) dataDirectory(entry ImageDirectoryEntry) (DataDirectory, bool) {
	if entry < 0 || entry >= ImageNumberOfDirectoryEntries {
		return DataDirectory{}, false
	}
	if img.is64 {
		oh, ok := img.NtHeader.OptionalHeader.(ImageOptionalHeader64)
		if !ok {
			return DataDirectory{}, false
		}
		return oh.DataDirectory[entry], true
	}
	oh, ok := img.NtHeader.OptionalHeader.(ImageOptionalHeader32)
	if !ok {
		return DataDirectory{}, false
	}
	return oh.DataDirectory[entry], true
}
