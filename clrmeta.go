// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package clrmeta decodes the .NET CLR metadata embedded in a PE image: the
// CLI header, the metadata root and its heaps, the full table set, and the
// manifest resource subsystem. It wraps two lower-level packages — peimage
// for the surrounding PE/COFF container, clr for the metadata itself — into
// the single entry point most callers want.
package clrmeta

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/saferwall/clrmeta/clr"
	"github.com/saferwall/clrmeta/peimage"
)

// Options configures how a module is opened and decoded.
type Options struct {
	// LazyLoad defers decoding the tables stream and resource list until
	// first access.
	LazyLoad bool

	// Logger receives structured warnings for both container-level and
	// metadata-level recoverable problems. A nil Logger uses a standard
	// logger writing to stderr.
	Logger log.Logger
}

// Module is an opened .NET assembly or module: its PE container and its
// decoded CLR metadata.
type Module struct {
	Image    *peimage.Image
	Metadata *clr.Metadata

	logger *log.Helper
}

// Open memory-maps the file at path, parses its PE container, and decodes
// its CLR metadata.
func Open(path string, opts Options) (*Module, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	helper := log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelWarn)))

	img, err := peimage.Open(path, peimage.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	md, err := clr.Open(img, clr.Options{
		LazyLoad: opts.LazyLoad,
		Warn: func(message, context string) {
			helper.Warnw("msg", message, "context", context)
		},
	})
	if err != nil {
		img.Close()
		return nil, err
	}

	return &Module{Image: img, Metadata: md, logger: helper}, nil
}

// OpenBytes decodes a module already held in memory, without touching the
// filesystem.
func OpenBytes(raw []byte, opts Options) (*Module, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	helper := log.NewHelper(log.NewFilter(logger, log.FilterLevel(log.LevelWarn)))

	img, err := peimage.OpenBytes(raw, peimage.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	md, err := clr.Open(img, clr.Options{
		LazyLoad: opts.LazyLoad,
		Warn: func(message, context string) {
			helper.Warnw("msg", message, "context", context)
		},
	})
	if err != nil {
		return nil, err
	}

	return &Module{Image: img, Metadata: md, logger: helper}, nil
}

// Close releases the underlying PE image.
func (m *Module) Close() error {
	return m.Image.Close()
}

// Tables returns a module's decoded metadata tables, keyed by the table
// kind constants in package clr (clr.Module, clr.TypeDef, ...).
func (m *Module) Tables() map[int]*clr.MetadataTable {
	return m.Metadata.Tables
}

// Resources returns every resource this module's manifest declares.
func (m *Module) Resources() ([]clr.ClrResource, error) {
	return m.Metadata.Resources()
}

// Methods returns every method this module's MethodDef table declares.
func (m *Module) Methods() ([]clr.Method, error) {
	return m.Metadata.Methods()
}
