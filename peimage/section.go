// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package peimage

import (
	"encoding/binary"
	"strings"
)

// ImageSectionHeader is a row of the PE section table.
type ImageSectionHeader struct {
	Name                 [8]byte `json:"name"`
	VirtualSize          uint32  `json:"virtual_size"`
	VirtualAddress       uint32  `json:"virtual_address"`
	SizeOfRawData        uint32  `json:"size_of_raw_data"`
	PointerToRawData     uint32  `json:"pointer_to_raw_data"`
	PointerToRelocations uint32  `json:"pointer_to_relocations"`
	PointerToLineNumbers uint32  `json:"pointer_to_line_numbers"`
	NumberOfRelocations  uint16  `json:"number_of_relocations"`
	NumberOfLineNumbers  uint16  `json:"number_of_line_numbers"`
	Characteristics      uint32  `json:"characteristics"`
}

// Section wraps a single section header.
type Section struct {
	Header ImageSectionHeader
}

// String returns the section name with NUL padding trimmed.
func (s *Section) String() string {
	return strings.TrimRight(string(s.Header.Name[:]), "\x00")
}

// contains reports whether rva falls within this section's virtual range.
func (s *Section) contains(rva uint32, img *Image) bool {
	size := s.Header.VirtualSize
	if size == 0 || size > s.Header.SizeOfRawData && s.Header.SizeOfRawData > 0 {
		size = s.Header.SizeOfRawData
	}
	start := img.adjustSectionAlignment(s.Header.VirtualAddress)
	return rva >= start && rva < start+size
}

// parseSectionHeader parses the PE section table, which immediately follows
// the optional header.
func (img *Image) parseSectionHeader() error {
	ntHeaderOffset := img.DOSHeader.AddressOfNewEXEHeader
	offset := ntHeaderOffset + 4 + uint32(binary.Size(img.NtHeader.FileHeader)) +
		uint32(img.NtHeader.FileHeader.SizeOfOptionalHeader)

	secHeaderSize := uint32(binary.Size(ImageSectionHeader{}))
	for i := uint16(0); i < img.NtHeader.FileHeader.NumberOfSections; i++ {
		sec := Section{}
		if err := img.structUnpack(&sec.Header, offset, secHeaderSize); err != nil {
			break
		}
		img.Sections = append(img.Sections, sec)
		offset += secHeaderSize
	}
	return nil
}
