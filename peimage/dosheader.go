// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package peimage

import "encoding/binary"

// ImageDOSHeader represents the DOS stub of a PE.
type ImageDOSHeader struct {
	Magic                    uint16 `json:"magic"`
	BytesOnLastPageOfFile    uint16 `json:"bytes_on_last_page_of_file"`
	PagesInFile              uint16 `json:"pages_in_file"`
	Relocations              uint16 `json:"relocations"`
	SizeOfHeader             uint16 `json:"size_of_header"`
	MinExtraParagraphsNeeded uint16 `json:"min_extra_paragraphs_needed"`
	MaxExtraParagraphsNeeded uint16 `json:"max_extra_paragraphs_needed"`
	InitialSS                uint16 `json:"initial_ss"`
	InitialSP                uint16 `json:"initial_sp"`
	Checksum                 uint16 `json:"checksum"`
	InitialIP                uint16 `json:"initial_ip"`
	InitialCS                uint16 `json:"initial_cs"`
	AddressOfRelocationTable uint16 `json:"address_of_relocation_table"`
	OverlayNumber            uint16 `json:"overlay_number"`
	ReservedWords1           [4]uint16 `json:"reserved_words_1"`
	OEMIdentifier            uint16    `json:"oem_identifier"`
	OEMInformation           uint16    `json:"oem_information"`
	ReservedWords2           [10]uint16 `json:"reserved_words_2"`

	// File address of the new EXE header (e_lfanew). This is the only field,
	// besides the magic, that a PE loader actually needs from the DOS stub.
	AddressOfNewEXEHeader uint32 `json:"address_of_new_exe_header"`
}

// parseDOSHeader parses the DOS header stub every PE file begins with.
func (img *Image) parseDOSHeader() error {
	size := uint32(binary.Size(img.DOSHeader))
	if err := img.structUnpack(&img.DOSHeader, 0, size); err != nil {
		return err
	}

	if img.DOSHeader.Magic != ImageDOSSignature {
		return ErrDOSMagicNotFound
	}

	if img.DOSHeader.AddressOfNewEXEHeader < 4 ||
		img.DOSHeader.AddressOfNewEXEHeader > img.size {
		return ErrInvalidElfanewValue
	}

	return nil
}
