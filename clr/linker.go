// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Run is a contiguous, 1-based [Start, End) range of child rows a parent
// row owns, as produced by a run-list column (TypeDef.FieldList, .MethodList,
// MethodDef.ParamList, EventMap.EventList, PropertyMap.PropertyList). End is
// exclusive, so an empty run has Start == End; a run is never collapsed to
// "absent" just because it's empty, and a single-element run is never
// widened or merged with its neighbor.
type Run struct {
	Start uint32
	End   uint32
}

// RunLists holds the resolved child ranges for every table that uses the
// run-list pattern, keyed by the 1-based parent row index.
type RunLists struct {
	TypeDefFields  map[uint32]Run
	TypeDefMethods map[uint32]Run
	MethodDefParams map[uint32]Run
	EventMapEvents  map[uint32]Run
	PropertyMapProps map[uint32]Run
}

// buildRun computes the run list for a column that lists, in row order, the
// first child index each parent owns. The last parent's run always extends
// through the child table's final row, since there is no "next" start to
// bound it.
func buildRun(starts []uint32, childRowCount uint32) map[uint32]Run {
	runs := make(map[uint32]Run, len(starts))
	for i, start := range starts {
		end := childRowCount + 1
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		// Parent rows are 1-based.
		runs[uint32(i+1)] = Run{Start: start, End: end}
	}
	return runs
}

func (md *Metadata) childRowCount(table int) uint32 {
	t, ok := md.Tables[table]
	if !ok {
		return 0
	}
	return t.CountCols
}

// linkTables builds every run list this module's tables support. It never
// fails: a table that isn't present simply contributes no runs.
func (md *Metadata) linkTables() error {
	md.Runs = RunLists{
		TypeDefFields:    map[uint32]Run{},
		TypeDefMethods:   map[uint32]Run{},
		MethodDefParams:  map[uint32]Run{},
		EventMapEvents:   map[uint32]Run{},
		PropertyMapProps: map[uint32]Run{},
	}

	if t, ok := md.Tables[TypeDef]; ok {
		if rows, ok := t.Content.([]TypeDefTableRow); ok {
			fieldStarts := make([]uint32, len(rows))
			methodStarts := make([]uint32, len(rows))
			for i, r := range rows {
				fieldStarts[i] = r.FieldList
				methodStarts[i] = r.MethodList
			}
			md.Runs.TypeDefFields = buildRun(fieldStarts, md.childRowCount(Field))
			md.Runs.TypeDefMethods = buildRun(methodStarts, md.childRowCount(MethodDef))
		}
	}

	if t, ok := md.Tables[MethodDef]; ok {
		if rows, ok := t.Content.([]MethodDefTableRow); ok {
			starts := make([]uint32, len(rows))
			for i, r := range rows {
				starts[i] = r.ParamList
			}
			md.Runs.MethodDefParams = buildRun(starts, md.childRowCount(Param))
		}
	}

	if t, ok := md.Tables[EventMap]; ok {
		if rows, ok := t.Content.([]EventMapTableRow); ok {
			starts := make([]uint32, len(rows))
			for i, r := range rows {
				starts[i] = r.EventList
			}
			md.Runs.EventMapEvents = buildRun(starts, md.childRowCount(Event))
		}
	}

	if t, ok := md.Tables[PropertyMap]; ok {
		if rows, ok := t.Content.([]PropertyMapTableRow); ok {
			starts := make([]uint32, len(rows))
			for i, r := range rows {
				starts[i] = r.PropertyList
			}
			md.Runs.PropertyMapProps = buildRun(starts, md.childRowCount(Property))
		}
	}

	return nil
}

// CodedIndexRef is a coded index resolved to the table kind and 1-based row
// it targets. Ok is false when the tag named a table kind this decoder
// doesn't recognize, which is a recoverable, soft-fail condition: the
// reference is simply treated as absent.
type CodedIndexRef struct {
	Table int
	Row   uint32
	Ok    bool
}

func resolveCoded(kind codedidx, raw uint32) CodedIndexRef {
	table, row, ok := kind.resolve(raw)
	if row == 0 {
		return CodedIndexRef{Ok: true}
	}
	return CodedIndexRef{Table: table, Row: row, Ok: ok}
}

// ResolveTypeDefOrRef, ResolveHasConstant, ... expose coded-index
// resolution for each of the coded index kinds ECMA-335 defines, so
// callers working with raw row fields (as produced by the table parsers
// above) don't need to know the kind's tag width or candidate table list.
func (md *Metadata) ResolveTypeDefOrRef(raw uint32) CodedIndexRef    { return resolveCoded(idxTypeDefOrRef, raw) }
func (md *Metadata) ResolveResolutionScope(raw uint32) CodedIndexRef { return resolveCoded(idxResolutionScope, raw) }
func (md *Metadata) ResolveMemberRefParent(raw uint32) CodedIndexRef { return resolveCoded(idxMemberRefParent, raw) }
func (md *Metadata) ResolveHasConstant(raw uint32) CodedIndexRef     { return resolveCoded(idxHasConstant, raw) }
func (md *Metadata) ResolveHasCustomAttribute(raw uint32) CodedIndexRef {
	return resolveCoded(idxHasCustomAttributes, raw)
}
func (md *Metadata) ResolveCustomAttributeType(raw uint32) CodedIndexRef {
	return resolveCoded(idxCustomAttributeType, raw)
}
func (md *Metadata) ResolveHasFieldMarshal(raw uint32) CodedIndexRef {
	return resolveCoded(idxHasFieldMarshall, raw)
}
func (md *Metadata) ResolveHasDeclSecurity(raw uint32) CodedIndexRef {
	return resolveCoded(idxHasDeclSecurity, raw)
}
func (md *Metadata) ResolveHasSemantics(raw uint32) CodedIndexRef { return resolveCoded(idxHasSemantics, raw) }
func (md *Metadata) ResolveMethodDefOrRef(raw uint32) CodedIndexRef {
	return resolveCoded(idxMethodDefOrRef, raw)
}
func (md *Metadata) ResolveMemberForwarded(raw uint32) CodedIndexRef {
	return resolveCoded(idxMemberForwarded, raw)
}
func (md *Metadata) ResolveImplementation(raw uint32) CodedIndexRef {
	return resolveCoded(idxImplementation, raw)
}
func (md *Metadata) ResolveTypeOrMethodDef(raw uint32) CodedIndexRef {
	return resolveCoded(idxTypeOrMethodDef, raw)
}
func (md *Metadata) ResolveHasCustomDebugInformation(raw uint32) CodedIndexRef {
	return resolveCoded(idxHasCustomDebugInformation, raw)
}

// String resolves an offset into the #Strings heap, logging and returning
// "" when the offset is out of range rather than failing the caller.
func (md *Metadata) String(offset uint32) string {
	s, ok := md.Heaps.String(offset)
	if !ok {
		md.recordWarning("string heap offset out of range", "")
	}
	return s
}

// Blob resolves an offset into the #Blob heap the same way String resolves
// one into #Strings: soft-fail to nil plus a recorded warning.
func (md *Metadata) Blob(offset uint32) []byte {
	b, ok := md.Heaps.Blob(offset)
	if !ok {
		md.recordWarning("blob heap offset out of range", "")
	}
	return b
}

// GUID resolves a 1-based index into the #GUID heap. present is false both
// for index 0 (legitimately absent) and for an out-of-range index (soft
// failure, recorded as a warning); callers that must tell the two apart
// can call Heaps.GUID directly.
func (md *Metadata) GUID(index uint32) (g [16]byte, present bool) {
	g, present, ok := md.Heaps.GUID(index)
	if !ok {
		md.recordWarning("GUID heap index out of range", "")
	}
	return g, present
}
