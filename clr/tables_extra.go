// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Tables the optimized "#~" stream never carries (the *Ptr indirection
// tables only exist in unoptimized "#-" metadata) or that real-world
// modules essentially never populate (AssemblyProcessor, AssemblyOS,
// AssemblyRefProcessor, AssemblyRefOS predate the portable assembly model
// and are reserved; ENCLog/ENCMap are edit-and-continue bookkeeping).
// Every one of them still flows through the same decodeRows engine
// tablerows.go uses, driven by its own entry in tableSchemas.

// FieldPtr 0x03
type FieldPtrTableRow struct {
	Field uint32 `json:"field"` // an index into the Field table
}

func (md *Metadata) parseMetadataFieldPtrTable(off uint32) ([]FieldPtrTableRow, uint32, error) {
	schema := tableSchemas[FieldPtr]
	rowCount := int(md.Tables[FieldPtr].CountCols)
	cols, n, err := md.decodeRows(FieldPtr, schema, rowCount, off)
	rows := make([]FieldPtrTableRow, rowCount)
	for i := range rows {
		rows[i] = FieldPtrTableRow{Field: cols[i]}
	}
	return rows, n, err
}

// MethodPtr 0x05
type MethodPtrTableRow struct {
	Method uint32 `json:"method"` // an index into the MethodDef table
}

func (md *Metadata) parseMetadataMethodPtrTable(off uint32) ([]MethodPtrTableRow, uint32, error) {
	schema := tableSchemas[MethodPtr]
	rowCount := int(md.Tables[MethodPtr].CountCols)
	cols, n, err := md.decodeRows(MethodPtr, schema, rowCount, off)
	rows := make([]MethodPtrTableRow, rowCount)
	for i := range rows {
		rows[i] = MethodPtrTableRow{Method: cols[i]}
	}
	return rows, n, err
}

// ParamPtr 0x07
type ParamPtrTableRow struct {
	Param uint32 `json:"param"` // an index into the Param table
}

func (md *Metadata) parseMetadataParamPtrTable(off uint32) ([]ParamPtrTableRow, uint32, error) {
	schema := tableSchemas[ParamPtr]
	rowCount := int(md.Tables[ParamPtr].CountCols)
	cols, n, err := md.decodeRows(ParamPtr, schema, rowCount, off)
	rows := make([]ParamPtrTableRow, rowCount)
	for i := range rows {
		rows[i] = ParamPtrTableRow{Param: cols[i]}
	}
	return rows, n, err
}

// EventPtr 0x13
type EventPtrTableRow struct {
	Event uint32 `json:"event"` // an index into the Event table
}

func (md *Metadata) parseMetadataEventPtrTable(off uint32) ([]EventPtrTableRow, uint32, error) {
	schema := tableSchemas[EventPtr]
	rowCount := int(md.Tables[EventPtr].CountCols)
	cols, n, err := md.decodeRows(EventPtr, schema, rowCount, off)
	rows := make([]EventPtrTableRow, rowCount)
	for i := range rows {
		rows[i] = EventPtrTableRow{Event: cols[i]}
	}
	return rows, n, err
}

// PropertyPtr 0x16
type PropertyPtrTableRow struct {
	Property uint32 `json:"property"` // an index into the Property table
}

func (md *Metadata) parseMetadataPropertyPtrTable(off uint32) ([]PropertyPtrTableRow, uint32, error) {
	schema := tableSchemas[PropertyPtr]
	rowCount := int(md.Tables[PropertyPtr].CountCols)
	cols, n, err := md.decodeRows(PropertyPtr, schema, rowCount, off)
	rows := make([]PropertyPtrTableRow, rowCount)
	for i := range rows {
		rows[i] = PropertyPtrTableRow{Property: cols[i]}
	}
	return rows, n, err
}

// AssemblyProcessor 0x21 — reserved, unused by any runtime.
type AssemblyProcessorTableRow struct {
	Processor uint32 `json:"processor"`
}

func (md *Metadata) parseMetadataAssemblyProcessorTable(off uint32) ([]AssemblyProcessorTableRow, uint32, error) {
	schema := tableSchemas[AssemblyProcessor]
	rowCount := int(md.Tables[AssemblyProcessor].CountCols)
	cols, n, err := md.decodeRows(AssemblyProcessor, schema, rowCount, off)
	rows := make([]AssemblyProcessorTableRow, rowCount)
	for i := range rows {
		rows[i] = AssemblyProcessorTableRow{Processor: cols[i]}
	}
	return rows, n, err
}

// AssemblyOS 0x22 — reserved, unused by any runtime.
type AssemblyOSTableRow struct {
	OSPlatformID   uint32 `json:"os_platform_id"`
	OSMajorVersion uint32 `json:"os_major_version"`
	OSMinorVersion uint32 `json:"os_minor_version"`
}

func (md *Metadata) parseMetadataAssemblyOSTable(off uint32) ([]AssemblyOSTableRow, uint32, error) {
	schema := tableSchemas[AssemblyOS]
	rowCount := int(md.Tables[AssemblyOS].CountCols)
	cols, n, err := md.decodeRows(AssemblyOS, schema, rowCount, off)
	rows := make([]AssemblyOSTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = AssemblyOSTableRow{OSPlatformID: cols[b], OSMajorVersion: cols[b+1], OSMinorVersion: cols[b+2]}
	}
	return rows, n, err
}

// AssemblyRefProcessor 0x24 — reserved, unused by any runtime.
type AssemblyRefProcessorTableRow struct {
	Processor   uint32 `json:"processor"`
	AssemblyRef uint32 `json:"assembly_ref"` // an index into the AssemblyRef table
}

func (md *Metadata) parseMetadataAssemblyRefProcessorTable(off uint32) ([]AssemblyRefProcessorTableRow, uint32, error) {
	schema := tableSchemas[AssemblyRefProcessor]
	rowCount := int(md.Tables[AssemblyRefProcessor].CountCols)
	cols, n, err := md.decodeRows(AssemblyRefProcessor, schema, rowCount, off)
	rows := make([]AssemblyRefProcessorTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = AssemblyRefProcessorTableRow{Processor: cols[b], AssemblyRef: cols[b+1]}
	}
	return rows, n, err
}

// AssemblyRefOS 0x25 — reserved, unused by any runtime.
type AssemblyRefOSTableRow struct {
	OSPlatformID   uint32 `json:"os_platform_id"`
	OSMajorVersion uint32 `json:"os_major_version"`
	OSMinorVersion uint32 `json:"os_minor_version"`
	AssemblyRef    uint32 `json:"assembly_ref"` // an index into the AssemblyRef table
}

func (md *Metadata) parseMetadataAssemblyRefOSTable(off uint32) ([]AssemblyRefOSTableRow, uint32, error) {
	schema := tableSchemas[AssemblyRefOS]
	rowCount := int(md.Tables[AssemblyRefOS].CountCols)
	cols, n, err := md.decodeRows(AssemblyRefOS, schema, rowCount, off)
	rows := make([]AssemblyRefOSTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = AssemblyRefOSTableRow{
			OSPlatformID:   cols[b],
			OSMajorVersion: cols[b+1],
			OSMinorVersion: cols[b+2],
			AssemblyRef:    cols[b+3],
		}
	}
	return rows, n, err
}

// File 0x26
type FileTableRow struct {
	Flags     uint32 `json:"flags"`      // a FileAttributes bitmask, §II.23.1.6
	Name      uint32 `json:"name"`       // an index into the String heap
	HashValue uint32 `json:"hash_value"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataFileTable(off uint32) ([]FileTableRow, uint32, error) {
	schema := tableSchemas[FileMD]
	rowCount := int(md.Tables[FileMD].CountCols)
	cols, n, err := md.decodeRows(FileMD, schema, rowCount, off)
	rows := make([]FileTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = FileTableRow{Flags: cols[b], Name: cols[b+1], HashValue: cols[b+2]}
	}
	return rows, n, err
}

// ENCLog 0x1e
type ENCLogTableRow struct {
	Token    uint32 `json:"token"`
	FuncCode uint32 `json:"func_code"`
}

func (md *Metadata) parseMetadataENCLogTable(off uint32) ([]ENCLogTableRow, uint32, error) {
	schema := tableSchemas[ENCLog]
	rowCount := int(md.Tables[ENCLog].CountCols)
	cols, n, err := md.decodeRows(ENCLog, schema, rowCount, off)
	rows := make([]ENCLogTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ENCLogTableRow{Token: cols[b], FuncCode: cols[b+1]}
	}
	return rows, n, err
}

// ENCMap 0x1f
type ENCMapTableRow struct {
	Token uint32 `json:"token"`
}

func (md *Metadata) parseMetadataENCMapTable(off uint32) ([]ENCMapTableRow, uint32, error) {
	schema := tableSchemas[ENCMap]
	rowCount := int(md.Tables[ENCMap].CountCols)
	cols, n, err := md.decodeRows(ENCMap, schema, rowCount, off)
	rows := make([]ENCMapTableRow, rowCount)
	for i := range rows {
		rows[i] = ENCMapTableRow{Token: cols[i]}
	}
	return rows, n, err
}
