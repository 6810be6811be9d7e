// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package peimage

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// Options configures how an Image is opened.
type Options struct {
	// Logger receives warnings encountered while parsing the container
	// itself. A nil Logger falls back to a standard logger writing to
	// stderr.
	Logger log.Logger
}

// Image is a parsed PE/COFF container, trimmed down to the pieces the CLR
// metadata decoder needs: header geometry and RVA-to-offset translation.
type Image struct {
	DOSHeader ImageDOSHeader
	NtHeader  ImageNtHeader
	Sections  []Section

	is64 bool
	size uint32
	data mmap.MMap
	f    *os.File
	// mapped is true only when data came from a real mmap.Map call; Close
	// must not call Unmap on a []byte that was merely converted to the
	// mmap.MMap type by OpenBytes.
	mapped bool

	logger *log.Helper
}

// Open memory-maps the file at path and parses its PE headers.
func Open(path string, opts Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	img := &Image{
		size:   uint32(len(data)),
		data:   data,
		f:      f,
		mapped: true,
	}
	img.setLogger(opts.Logger)

	if err := img.parse(); err != nil {
		img.Close()
		return nil, err
	}
	return img, nil
}

// OpenBytes parses an in-memory PE image without touching the filesystem.
func OpenBytes(raw []byte, opts Options) (*Image, error) {
	img := &Image{
		size: uint32(len(raw)),
		data: mmap.MMap(raw),
	}
	img.setLogger(opts.Logger)

	if err := img.parse(); err != nil {
		return nil, err
	}
	return img, nil
}

func (img *Image) setLogger(logger log.Logger) {
	if logger == nil {
		logger = log.NewStdLogger(os.Stderr)
	}
	img.logger = log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelError)))
}

// parse walks the DOS header, NT header and section table in order; each
// stage depends on fields the previous stage populated.
func (img *Image) parse() error {
	if err := img.parseDOSHeader(); err != nil {
		return err
	}
	if err := img.parseNTHeader(); err != nil {
		return err
	}
	return img.parseSectionHeader()
}

// Close releases the memory mapping and the underlying file, if any.
func (img *Image) Close() error {
	var err error
	if img.mapped && img.data != nil {
		err = img.data.Unmap()
	}
	if img.f != nil {
		if cerr := img.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Is64 reports whether the image is a PE32+ (64-bit) image.
func (img *Image) Is64() bool {
	return img.is64
}

// Size returns the total size, in bytes, of the underlying image.
func (img *Image) Size() uint32 {
	return img.size
}

// DataDirectory returns the data directory entry identified by entry. ok is
// false when the optional header does not carry that many directory
// entries, which is a normal, recoverable condition rather than an error.
func (img *Image) DataDirectory(entry ImageDirectoryEntry) (DataDirectory, bool) {
	return img.dataDirectory(entry)
}
