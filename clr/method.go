// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// MethodAttributes bits relevant to classifying a MethodDef row (ECMA-335
// §II.23.1.10). Only the bit this package inspects is named.
const methodAttrPInvokeImpl = 0x2000

// MethodKind discriminates the two concrete shapes a Method can take.
type MethodKind int

const (
	// MethodInternal is implemented by IL in this module's own method body.
	MethodInternal MethodKind = iota
	// MethodExternal is forwarded to unmanaged code via P/Invoke: an
	// ImplMap row names it, or its PinvokeImpl flag is set. A method that
	// merely has no IL body (RVA 0) is still MethodInternal.
	MethodExternal
)

// ExternalMethod carries the platform-invocation details of a method whose
// body lives outside this module.
type ExternalMethod struct {
	ModuleName    string
	ImportName    string
	MappingFlags  uint16
}

// Method is a MethodDef row resolved into one of two shapes, told apart by
// Kind: an internal method (MethodInternal, External == nil) or one
// forwarded to unmanaged code (MethodExternal, External != nil).
type Method struct {
	Name      string
	Signature []byte
	RowIndex  uint32
	Kind      MethodKind

	// RVA is the internal method body's relative virtual address. Zero
	// for an abstract or external method.
	RVA uint32

	External *ExternalMethod
}

// Methods decodes every MethodDef row into a Method, classifying each as
// internal or external by cross-referencing the ImplMap table. The result
// is cached: later calls are free.
func (md *Metadata) Methods() ([]Method, error) {
	md.methodsOnce.Do(func() {
		md.methodsErr = md.loadMethods()
	})
	return md.methods, md.methodsErr
}

func (md *Metadata) loadMethods() error {
	if err := md.loadTables(); err != nil {
		return err
	}

	t, ok := md.Tables[MethodDef]
	if !ok {
		return nil
	}
	rows, ok := t.Content.([]MethodDefTableRow)
	if !ok {
		return nil
	}

	implMap := map[uint32]ImplMapTableRow{}
	if it, ok := md.Tables[ImplMap]; ok {
		if implRows, ok := it.Content.([]ImplMapTableRow); ok {
			for _, r := range implRows {
				ref := md.ResolveMemberForwarded(r.MemberForwarded)
				if ref.Ok && ref.Table == MethodDef {
					implMap[ref.Row] = r
				}
			}
		}
	}

	moduleRefNames := map[uint32]string{}
	if mt, ok := md.Tables[ModuleRef]; ok {
		if modRows, ok := mt.Content.([]ModuleRefTableRow); ok {
			for i, r := range modRows {
				moduleRefNames[uint32(i+1)] = md.String(r.Name)
			}
		}
	}

	methods := make([]Method, len(rows))
	for i, r := range rows {
		rowIdx := uint32(i + 1)
		m := Method{
			Name:      md.String(r.Name),
			Signature: md.Blob(r.Signature),
			RowIndex:  rowIdx,
			RVA:       r.RVA,
		}

		if impl, ok := implMap[rowIdx]; ok || r.Flags&methodAttrPInvokeImpl != 0 {
			m.Kind = MethodExternal
			m.External = &ExternalMethod{
				ModuleName:   moduleRefNames[impl.ImportScope],
				ImportName:   md.String(impl.ImportName),
				MappingFlags: impl.MappingFlags,
			}
		} else {
			m.Kind = MethodInternal
		}

		methods[i] = m
	}

	md.methods = methods
	return nil
}
