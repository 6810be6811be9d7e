// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// Row field comments are paraphrased from ECMA-335 6th edition §II.22.
// Every parse function below decodes its rows through decodeRows, driven
// by the matching entry in tableSchemas (tables_schema.go); the function
// body is just the mapping from the flat column slice back onto named,
// typed fields.

// Module 0x00
type ModuleTableRow struct {
	Generation uint16 `json:"generation"` // reserved, shall be zero
	Name       uint32 `json:"name"`       // an index into the String heap
	Mvid       uint32 `json:"mvid"`       // an index into the Guid heap, identifying this module's version
	EncID      uint32 `json:"enc_id"`     // an index into the Guid heap; reserved, shall be zero
	EncBaseID  uint32 `json:"enc_base_id"` // an index into the Guid heap; reserved, shall be zero
}

func (md *Metadata) parseMetadataModuleTable(off uint32) ([]ModuleTableRow, uint32, error) {
	schema := tableSchemas[Module]
	rowCount := int(md.Tables[Module].CountCols)
	cols, n, err := md.decodeRows(Module, schema, rowCount, off)
	rows := make([]ModuleTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ModuleTableRow{
			Generation: uint16(cols[b]),
			Name:       cols[b+1],
			Mvid:       cols[b+2],
			EncID:      cols[b+3],
			EncBaseID:  cols[b+4],
		}
	}
	return rows, n, err
}

// TypeRef 0x01
type TypeRefTableRow struct {
	// a ResolutionScope (§II.24.2.6) coded index: Module, ModuleRef,
	// AssemblyRef or TypeRef
	ResolutionScope uint32 `json:"resolution_scope"`
	TypeName        uint32 `json:"type_name"`      // an index into the String heap
	TypeNamespace   uint32 `json:"type_namespace"` // an index into the String heap
}

func (md *Metadata) parseMetadataTypeRefTable(off uint32) ([]TypeRefTableRow, uint32, error) {
	schema := tableSchemas[TypeRef]
	rowCount := int(md.Tables[TypeRef].CountCols)
	cols, n, err := md.decodeRows(TypeRef, schema, rowCount, off)
	rows := make([]TypeRefTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = TypeRefTableRow{ResolutionScope: cols[b], TypeName: cols[b+1], TypeNamespace: cols[b+2]}
	}
	return rows, n, err
}

// TypeDef 0x02
type TypeDefTableRow struct {
	Flags         uint32 `json:"flags"`          // a TypeAttributes bitmask, §II.23.1.15
	TypeName      uint32 `json:"type_name"`      // an index into the String heap
	TypeNamespace uint32 `json:"type_namespace"` // an index into the String heap
	// a TypeDefOrRef (§II.24.2.6) coded index
	Extends uint32 `json:"extends"`
	// an index into the Field table: the first of a contiguous run of
	// fields owned by this type
	FieldList uint32 `json:"field_list"`
	// an index into the MethodDef table: the first of a contiguous run of
	// methods owned by this type
	MethodList uint32 `json:"method_list"`
}

func (md *Metadata) parseMetadataTypeDefTable(off uint32) ([]TypeDefTableRow, uint32, error) {
	schema := tableSchemas[TypeDef]
	rowCount := int(md.Tables[TypeDef].CountCols)
	cols, n, err := md.decodeRows(TypeDef, schema, rowCount, off)
	rows := make([]TypeDefTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = TypeDefTableRow{
			Flags:         cols[b],
			TypeName:      cols[b+1],
			TypeNamespace: cols[b+2],
			Extends:       cols[b+3],
			FieldList:     cols[b+4],
			MethodList:    cols[b+5],
		}
	}
	return rows, n, err
}

// Field 0x04
type FieldTableRow struct {
	Flags     uint16 `json:"flags"`     // a FieldAttributes bitmask, §II.23.1.5
	Name      uint32 `json:"name"`      // an index into the String heap
	Signature uint32 `json:"signature"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataFieldTable(off uint32) ([]FieldTableRow, uint32, error) {
	schema := tableSchemas[Field]
	rowCount := int(md.Tables[Field].CountCols)
	cols, n, err := md.decodeRows(Field, schema, rowCount, off)
	rows := make([]FieldTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = FieldTableRow{Flags: uint16(cols[b]), Name: cols[b+1], Signature: cols[b+2]}
	}
	return rows, n, err
}

// MethodDef 0x06
type MethodDefTableRow struct {
	RVA       uint32 `json:"rva"`
	ImplFlags uint16 `json:"impl_flags"` // a MethodImplAttributes bitmask, §II.23.1.10
	Flags     uint16 `json:"flags"`      // a MethodAttributes bitmask, §II.23.1.10
	Name      uint32 `json:"name"`       // an index into the String heap
	Signature uint32 `json:"signature"`  // an index into the Blob heap
	ParamList uint32 `json:"param_list"` // an index into the Param table
}

func (md *Metadata) parseMetadataMethodDefTable(off uint32) ([]MethodDefTableRow, uint32, error) {
	schema := tableSchemas[MethodDef]
	rowCount := int(md.Tables[MethodDef].CountCols)
	cols, n, err := md.decodeRows(MethodDef, schema, rowCount, off)
	rows := make([]MethodDefTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = MethodDefTableRow{
			RVA:       cols[b],
			ImplFlags: uint16(cols[b+1]),
			Flags:     uint16(cols[b+2]),
			Name:      cols[b+3],
			Signature: cols[b+4],
			ParamList: cols[b+5],
		}
	}
	return rows, n, err
}

// Param 0x08
type ParamTableRow struct {
	Flags    uint16 `json:"flags"`    // a ParamAttributes bitmask, §II.23.1.13
	Sequence uint16 `json:"sequence"`
	Name     uint32 `json:"name"` // an index into the String heap
}

func (md *Metadata) parseMetadataParamTable(off uint32) ([]ParamTableRow, uint32, error) {
	schema := tableSchemas[Param]
	rowCount := int(md.Tables[Param].CountCols)
	cols, n, err := md.decodeRows(Param, schema, rowCount, off)
	rows := make([]ParamTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ParamTableRow{Flags: uint16(cols[b]), Sequence: uint16(cols[b+1]), Name: cols[b+2]}
	}
	return rows, n, err
}

// InterfaceImpl 0x09
type InterfaceImplTableRow struct {
	Class     uint32 `json:"class"`     // an index into the TypeDef table
	Interface uint32 `json:"interface"` // a TypeDefOrRef (§II.24.2.6) coded index
}

func (md *Metadata) parseMetadataInterfaceImplTable(off uint32) ([]InterfaceImplTableRow, uint32, error) {
	schema := tableSchemas[InterfaceImpl]
	rowCount := int(md.Tables[InterfaceImpl].CountCols)
	cols, n, err := md.decodeRows(InterfaceImpl, schema, rowCount, off)
	rows := make([]InterfaceImplTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = InterfaceImplTableRow{Class: cols[b], Interface: cols[b+1]}
	}
	return rows, n, err
}

// MemberRef 0x0a
type MemberRefTableRow struct {
	Class     uint32 `json:"class"`     // a MemberRefParent (§II.24.2.6) coded index
	Name      uint32 `json:"name"`      // an index into the String heap
	Signature uint32 `json:"signature"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataMemberRefTable(off uint32) ([]MemberRefTableRow, uint32, error) {
	schema := tableSchemas[MemberRef]
	rowCount := int(md.Tables[MemberRef].CountCols)
	cols, n, err := md.decodeRows(MemberRef, schema, rowCount, off)
	rows := make([]MemberRefTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = MemberRefTableRow{Class: cols[b], Name: cols[b+1], Signature: cols[b+2]}
	}
	return rows, n, err
}

// Constant 0x0b
type ConstantTableRow struct {
	Type    uint8  `json:"type"`    // a 1-byte constant, followed by a 1-byte padding zero
	Padding uint8  `json:"padding"`
	Parent  uint32 `json:"parent"` // a HasConstant (§II.24.2.6) coded index: Param, Field or Property
	Value   uint32 `json:"value"`  // an index into the Blob heap
}

func (md *Metadata) parseMetadataConstantTable(off uint32) ([]ConstantTableRow, uint32, error) {
	schema := tableSchemas[Constant]
	rowCount := int(md.Tables[Constant].CountCols)
	cols, n, err := md.decodeRows(Constant, schema, rowCount, off)
	rows := make([]ConstantTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ConstantTableRow{Type: uint8(cols[b]), Padding: uint8(cols[b+1]), Parent: cols[b+2], Value: cols[b+3]}
	}
	return rows, n, err
}

// CustomAttribute 0x0c
type CustomAttributeTableRow struct {
	Parent uint32 `json:"parent"` // a HasCustomAttribute (§II.24.2.6) coded index
	Type   uint32 `json:"type"`   // a CustomAttributeType (§II.24.2.6) coded index
	Value  uint32 `json:"value"`  // an index into the Blob heap
}

func (md *Metadata) parseMetadataCustomAttributeTable(off uint32) ([]CustomAttributeTableRow, uint32, error) {
	schema := tableSchemas[CustomAttribute]
	rowCount := int(md.Tables[CustomAttribute].CountCols)
	cols, n, err := md.decodeRows(CustomAttribute, schema, rowCount, off)
	rows := make([]CustomAttributeTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = CustomAttributeTableRow{Parent: cols[b], Type: cols[b+1], Value: cols[b+2]}
	}
	return rows, n, err
}

// FieldMarshal 0x0d
type FieldMarshalTableRow struct {
	Parent     uint32 `json:"parent"`      // a HasFieldMarshal (§II.24.2.6) coded index: Field or Param
	NativeType uint32 `json:"native_type"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataFieldMarshalTable(off uint32) ([]FieldMarshalTableRow, uint32, error) {
	schema := tableSchemas[FieldMarshal]
	rowCount := int(md.Tables[FieldMarshal].CountCols)
	cols, n, err := md.decodeRows(FieldMarshal, schema, rowCount, off)
	rows := make([]FieldMarshalTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = FieldMarshalTableRow{Parent: cols[b], NativeType: cols[b+1]}
	}
	return rows, n, err
}

// DeclSecurity 0x0e
type DeclSecurityTableRow struct {
	Action        uint16 `json:"action"`
	Parent        uint32 `json:"parent"`         // a HasDeclSecurity (§II.24.2.6) coded index
	PermissionSet uint32 `json:"permission_set"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataDeclSecurityTable(off uint32) ([]DeclSecurityTableRow, uint32, error) {
	schema := tableSchemas[DeclSecurity]
	rowCount := int(md.Tables[DeclSecurity].CountCols)
	cols, n, err := md.decodeRows(DeclSecurity, schema, rowCount, off)
	rows := make([]DeclSecurityTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = DeclSecurityTableRow{Action: uint16(cols[b]), Parent: cols[b+1], PermissionSet: cols[b+2]}
	}
	return rows, n, err
}

// ClassLayout 0x0f
type ClassLayoutTableRow struct {
	PackingSize uint16 `json:"packing_size"`
	ClassSize   uint32 `json:"class_size"`
	Parent      uint32 `json:"parent"` // an index into the TypeDef table
}

func (md *Metadata) parseMetadataClassLayoutTable(off uint32) ([]ClassLayoutTableRow, uint32, error) {
	schema := tableSchemas[ClassLayout]
	rowCount := int(md.Tables[ClassLayout].CountCols)
	cols, n, err := md.decodeRows(ClassLayout, schema, rowCount, off)
	rows := make([]ClassLayoutTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ClassLayoutTableRow{PackingSize: uint16(cols[b]), ClassSize: cols[b+1], Parent: cols[b+2]}
	}
	return rows, n, err
}

// FieldLayout 0x10
type FieldLayoutTableRow struct {
	Offset uint32 `json:"offset"`
	Field  uint32 `json:"field"` // an index into the Field table
}

func (md *Metadata) parseMetadataFieldLayoutTable(off uint32) ([]FieldLayoutTableRow, uint32, error) {
	schema := tableSchemas[FieldLayout]
	rowCount := int(md.Tables[FieldLayout].CountCols)
	cols, n, err := md.decodeRows(FieldLayout, schema, rowCount, off)
	rows := make([]FieldLayoutTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = FieldLayoutTableRow{Offset: cols[b], Field: cols[b+1]}
	}
	return rows, n, err
}

// StandAloneSig 0x11
type StandAloneSigTableRow struct {
	Signature uint32 `json:"signature"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataStandAloneSignTable(off uint32) ([]StandAloneSigTableRow, uint32, error) {
	schema := tableSchemas[StandAloneSig]
	rowCount := int(md.Tables[StandAloneSig].CountCols)
	cols, n, err := md.decodeRows(StandAloneSig, schema, rowCount, off)
	rows := make([]StandAloneSigTableRow, rowCount)
	for i := range rows {
		rows[i] = StandAloneSigTableRow{Signature: cols[i]}
	}
	return rows, n, err
}

// EventMap 0x12
type EventMapTableRow struct {
	Parent    uint32 `json:"parent"`     // an index into the TypeDef table
	EventList uint32 `json:"event_list"` // an index into the Event table
}

func (md *Metadata) parseMetadataEventMapTable(off uint32) ([]EventMapTableRow, uint32, error) {
	schema := tableSchemas[EventMap]
	rowCount := int(md.Tables[EventMap].CountCols)
	cols, n, err := md.decodeRows(EventMap, schema, rowCount, off)
	rows := make([]EventMapTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = EventMapTableRow{Parent: cols[b], EventList: cols[b+1]}
	}
	return rows, n, err
}

// Event 0x14
type EventTableRow struct {
	EventFlags uint16 `json:"event_flags"` // an EventAttributes bitmask, §II.23.1.4
	Name       uint32 `json:"name"`        // an index into the String heap
	EventType  uint32 `json:"event_type"`  // a TypeDefOrRef (§II.24.2.6) coded index
}

func (md *Metadata) parseMetadataEventTable(off uint32) ([]EventTableRow, uint32, error) {
	schema := tableSchemas[Event]
	rowCount := int(md.Tables[Event].CountCols)
	cols, n, err := md.decodeRows(Event, schema, rowCount, off)
	rows := make([]EventTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = EventTableRow{EventFlags: uint16(cols[b]), Name: cols[b+1], EventType: cols[b+2]}
	}
	return rows, n, err
}

// PropertyMap 0x15
type PropertyMapTableRow struct {
	Parent       uint32 `json:"parent"`        // an index into the TypeDef table
	PropertyList uint32 `json:"property_list"` // an index into the Property table
}

func (md *Metadata) parseMetadataPropertyMapTable(off uint32) ([]PropertyMapTableRow, uint32, error) {
	schema := tableSchemas[PropertyMap]
	rowCount := int(md.Tables[PropertyMap].CountCols)
	cols, n, err := md.decodeRows(PropertyMap, schema, rowCount, off)
	rows := make([]PropertyMapTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = PropertyMapTableRow{Parent: cols[b], PropertyList: cols[b+1]}
	}
	return rows, n, err
}

// Property 0x17
type PropertyTableRow struct {
	Flags uint16 `json:"flags"` // a PropertyAttributes bitmask, §II.23.1.14
	Name  uint32 `json:"name"`  // an index into the String heap
	Type  uint32 `json:"type"`  // an index into the Blob heap
}

func (md *Metadata) parseMetadataPropertyTable(off uint32) ([]PropertyTableRow, uint32, error) {
	schema := tableSchemas[Property]
	rowCount := int(md.Tables[Property].CountCols)
	cols, n, err := md.decodeRows(Property, schema, rowCount, off)
	rows := make([]PropertyTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = PropertyTableRow{Flags: uint16(cols[b]), Name: cols[b+1], Type: cols[b+2]}
	}
	return rows, n, err
}

// MethodSemantics 0x18
type MethodSemanticsTableRow struct {
	Semantics   uint16 `json:"semantics"`  // a MethodSemanticsAttributes bitmask, §II.23.1.12
	Method      uint32 `json:"method"`     // an index into the MethodDef table
	Association uint32 `json:"association"` // a HasSemantics (§II.24.2.6) coded index: Event or Property
}

func (md *Metadata) parseMetadataMethodSemanticsTable(off uint32) ([]MethodSemanticsTableRow, uint32, error) {
	schema := tableSchemas[MethodSemantics]
	rowCount := int(md.Tables[MethodSemantics].CountCols)
	cols, n, err := md.decodeRows(MethodSemantics, schema, rowCount, off)
	rows := make([]MethodSemanticsTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = MethodSemanticsTableRow{Semantics: uint16(cols[b]), Method: cols[b+1], Association: cols[b+2]}
	}
	return rows, n, err
}

// MethodImpl 0x19
type MethodImplTableRow struct {
	Class             uint32 `json:"class"`              // an index into the TypeDef table
	MethodBody        uint32 `json:"method_body"`        // a MethodDefOrRef (§II.24.2.6) coded index
	MethodDeclaration uint32 `json:"method_declaration"` // a MethodDefOrRef (§II.24.2.6) coded index
}

func (md *Metadata) parseMetadataMethodImplTable(off uint32) ([]MethodImplTableRow, uint32, error) {
	schema := tableSchemas[MethodImpl]
	rowCount := int(md.Tables[MethodImpl].CountCols)
	cols, n, err := md.decodeRows(MethodImpl, schema, rowCount, off)
	rows := make([]MethodImplTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = MethodImplTableRow{Class: cols[b], MethodBody: cols[b+1], MethodDeclaration: cols[b+2]}
	}
	return rows, n, err
}

// ModuleRef 0x1a
type ModuleRefTableRow struct {
	Name uint32 `json:"name"` // an index into the String heap
}

func (md *Metadata) parseMetadataModuleRefTable(off uint32) ([]ModuleRefTableRow, uint32, error) {
	schema := tableSchemas[ModuleRef]
	rowCount := int(md.Tables[ModuleRef].CountCols)
	cols, n, err := md.decodeRows(ModuleRef, schema, rowCount, off)
	rows := make([]ModuleRefTableRow, rowCount)
	for i := range rows {
		rows[i] = ModuleRefTableRow{Name: cols[i]}
	}
	return rows, n, err
}

// TypeSpec 0x1b
type TypeSpecTableRow struct {
	Signature uint32 `json:"signature"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataTypeSpecTable(off uint32) ([]TypeSpecTableRow, uint32, error) {
	schema := tableSchemas[TypeSpec]
	rowCount := int(md.Tables[TypeSpec].CountCols)
	cols, n, err := md.decodeRows(TypeSpec, schema, rowCount, off)
	rows := make([]TypeSpecTableRow, rowCount)
	for i := range rows {
		rows[i] = TypeSpecTableRow{Signature: cols[i]}
	}
	return rows, n, err
}

// ImplMap 0x1c
type ImplMapTableRow struct {
	MappingFlags uint16 `json:"mapping_flags"` // a PInvokeAttributes bitmask, §II.23.1.8
	// a MemberForwarded (§II.24.2.6) coded index: Field or MethodDef
	MemberForwarded uint32 `json:"member_forwarded"`
	ImportName      uint32 `json:"import_name"` // an index into the String heap
	ImportScope     uint32 `json:"import_scope"` // an index into the ModuleRef table
}

func (md *Metadata) parseMetadataImplMapTable(off uint32) ([]ImplMapTableRow, uint32, error) {
	schema := tableSchemas[ImplMap]
	rowCount := int(md.Tables[ImplMap].CountCols)
	cols, n, err := md.decodeRows(ImplMap, schema, rowCount, off)
	rows := make([]ImplMapTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ImplMapTableRow{
			MappingFlags:    uint16(cols[b]),
			MemberForwarded: cols[b+1],
			ImportName:      cols[b+2],
			ImportScope:     cols[b+3],
		}
	}
	return rows, n, err
}

// FieldRVA 0x1d
type FieldRVATableRow struct {
	RVA   uint32 `json:"rva"`
	Field uint32 `json:"field"` // an index into the Field table
}

func (md *Metadata) parseMetadataFieldRVATable(off uint32) ([]FieldRVATableRow, uint32, error) {
	schema := tableSchemas[FieldRVA]
	rowCount := int(md.Tables[FieldRVA].CountCols)
	cols, n, err := md.decodeRows(FieldRVA, schema, rowCount, off)
	rows := make([]FieldRVATableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = FieldRVATableRow{RVA: cols[b], Field: cols[b+1]}
	}
	return rows, n, err
}

// Assembly 0x20
type AssemblyTableRow struct {
	HashAlgId      uint32 `json:"hash_alg_id"` // an AssemblyHashAlgorithm constant, §II.23.1.1
	MajorVersion   uint16 `json:"major_version"`
	MinorVersion   uint16 `json:"minor_version"`
	BuildNumber    uint16 `json:"build_number"`
	RevisionNumber uint16 `json:"revision_number"`
	Flags          uint32 `json:"flags"` // an AssemblyFlags bitmask, §II.23.1.2
	PublicKey      uint32 `json:"public_key"` // an index into the Blob heap
	Name           uint32 `json:"name"`       // an index into the String heap
	Culture        uint32 `json:"culture"`    // an index into the String heap
}

func (md *Metadata) parseMetadataAssemblyTable(off uint32) ([]AssemblyTableRow, uint32, error) {
	schema := tableSchemas[Assembly]
	rowCount := int(md.Tables[Assembly].CountCols)
	cols, n, err := md.decodeRows(Assembly, schema, rowCount, off)
	rows := make([]AssemblyTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = AssemblyTableRow{
			HashAlgId:      cols[b],
			MajorVersion:   uint16(cols[b+1]),
			MinorVersion:   uint16(cols[b+2]),
			BuildNumber:    uint16(cols[b+3]),
			RevisionNumber: uint16(cols[b+4]),
			Flags:          cols[b+5],
			PublicKey:      cols[b+6],
			Name:           cols[b+7],
			Culture:        cols[b+8],
		}
	}
	return rows, n, err
}

// AssemblyRef 0x23
type AssemblyRefTableRow struct {
	MajorVersion     uint16 `json:"major_version"`
	MinorVersion     uint16 `json:"minor_version"`
	BuildNumber      uint16 `json:"build_number"`
	RevisionNumber   uint16 `json:"revision_number"`
	Flags            uint32 `json:"flags"` // an AssemblyFlags bitmask, §II.23.1.2
	PublicKeyOrToken uint32 `json:"public_key_or_token"` // an index into the Blob heap
	Name             uint32 `json:"name"`                // an index into the String heap
	Culture          uint32 `json:"culture"`             // an index into the String heap
	HashValue        uint32 `json:"hash_value"`          // an index into the Blob heap
}

func (md *Metadata) parseMetadataAssemblyRefTable(off uint32) ([]AssemblyRefTableRow, uint32, error) {
	schema := tableSchemas[AssemblyRef]
	rowCount := int(md.Tables[AssemblyRef].CountCols)
	cols, n, err := md.decodeRows(AssemblyRef, schema, rowCount, off)
	rows := make([]AssemblyRefTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = AssemblyRefTableRow{
			MajorVersion:     uint16(cols[b]),
			MinorVersion:     uint16(cols[b+1]),
			BuildNumber:      uint16(cols[b+2]),
			RevisionNumber:   uint16(cols[b+3]),
			Flags:            cols[b+4],
			PublicKeyOrToken: cols[b+5],
			Name:             cols[b+6],
			Culture:          cols[b+7],
			HashValue:        cols[b+8],
		}
	}
	return rows, n, err
}

// ExportedType 0x27
type ExportedTypeTableRow struct {
	Flags          uint32 `json:"flags"`          // a TypeAttributes bitmask, §II.23.1.15
	TypeDefId      uint32 `json:"type_def_id"`    // an index into a TypeDef table of another module in this assembly
	TypeName       uint32 `json:"type_name"`      // an index into the String heap
	TypeNamespace  uint32 `json:"type_namespace"` // an index into the String heap
	Implementation uint32 `json:"implementation"` // an Implementation (§II.24.2.6) coded index
}

func (md *Metadata) parseMetadataExportedTypeTable(off uint32) ([]ExportedTypeTableRow, uint32, error) {
	schema := tableSchemas[ExportedType]
	rowCount := int(md.Tables[ExportedType].CountCols)
	cols, n, err := md.decodeRows(ExportedType, schema, rowCount, off)
	rows := make([]ExportedTypeTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ExportedTypeTableRow{
			Flags:          cols[b],
			TypeDefId:      cols[b+1],
			TypeName:       cols[b+2],
			TypeNamespace:  cols[b+3],
			Implementation: cols[b+4],
		}
	}
	return rows, n, err
}

// ManifestResource 0x28
type ManifestResourceTableRow struct {
	Offset         uint32 `json:"offset"`
	Flags          uint32 `json:"flags"` // a ManifestResourceAttributes bitmask, §II.23.1.9
	Name           uint32 `json:"name"`  // an index into the String heap
	// an Implementation (§II.24.2.6) coded index: File, AssemblyRef, or null
	Implementation uint32 `json:"implementation"`
}

func (md *Metadata) parseMetadataManifestResourceTable(off uint32) ([]ManifestResourceTableRow, uint32, error) {
	schema := tableSchemas[ManifestResource]
	rowCount := int(md.Tables[ManifestResource].CountCols)
	cols, n, err := md.decodeRows(ManifestResource, schema, rowCount, off)
	rows := make([]ManifestResourceTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = ManifestResourceTableRow{Offset: cols[b], Flags: cols[b+1], Name: cols[b+2], Implementation: cols[b+3]}
	}
	return rows, n, err
}

// NestedClass 0x29
type NestedClassTableRow struct {
	NestedClass    uint32 `json:"nested_class"`    // an index into the TypeDef table
	EnclosingClass uint32 `json:"enclosing_class"` // an index into the TypeDef table
}

func (md *Metadata) parseMetadataNestedClassTable(off uint32) ([]NestedClassTableRow, uint32, error) {
	schema := tableSchemas[NestedClass]
	rowCount := int(md.Tables[NestedClass].CountCols)
	cols, n, err := md.decodeRows(NestedClass, schema, rowCount, off)
	rows := make([]NestedClassTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = NestedClassTableRow{NestedClass: cols[b], EnclosingClass: cols[b+1]}
	}
	return rows, n, err
}

// GenericParam 0x2a
type GenericParamTableRow struct {
	Number uint16 `json:"number"` // index of the parameter, numbered left-to-right from zero
	Flags  uint16 `json:"flags"`  // a GenericParamAttributes bitmask, §II.23.1.7
	// a TypeOrMethodDef (§II.24.2.6) coded index: the TypeDef or MethodDef
	// this generic parameter applies to
	Owner uint32 `json:"owner"`
	Name  uint32 `json:"name"` // a non-null index into the String heap
}

func (md *Metadata) parseMetadataGenericParamTable(off uint32) ([]GenericParamTableRow, uint32, error) {
	schema := tableSchemas[GenericParam]
	rowCount := int(md.Tables[GenericParam].CountCols)
	cols, n, err := md.decodeRows(GenericParam, schema, rowCount, off)
	rows := make([]GenericParamTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = GenericParamTableRow{Number: uint16(cols[b]), Flags: uint16(cols[b+1]), Owner: cols[b+2], Name: cols[b+3]}
	}
	return rows, n, err
}

// MethodSpec 0x2b
type MethodSpecTableRow struct {
	Method        uint32 `json:"method"` // a MethodDefOrRef (§II.24.2.6) coded index
	Instantiation uint32 `json:"instantiation"` // an index into the Blob heap
}

func (md *Metadata) parseMetadataMethodSpecTable(off uint32) ([]MethodSpecTableRow, uint32, error) {
	schema := tableSchemas[MethodSpec]
	rowCount := int(md.Tables[MethodSpec].CountCols)
	cols, n, err := md.decodeRows(MethodSpec, schema, rowCount, off)
	rows := make([]MethodSpecTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = MethodSpecTableRow{Method: cols[b], Instantiation: cols[b+1]}
	}
	return rows, n, err
}

// GenericParamConstraint 0x2c
type GenericParamConstraintTableRow struct {
	Owner      uint32 `json:"owner"`      // an index into the GenericParam table
	Constraint uint32 `json:"constraint"` // a TypeDefOrRef (§II.24.2.6) coded index
}

func (md *Metadata) parseMetadataGenericParamConstraintTable(off uint32) ([]GenericParamConstraintTableRow, uint32, error) {
	schema := tableSchemas[GenericParamConstraint]
	rowCount := int(md.Tables[GenericParamConstraint].CountCols)
	cols, n, err := md.decodeRows(GenericParamConstraint, schema, rowCount, off)
	rows := make([]GenericParamConstraintTableRow, rowCount)
	for i := range rows {
		b := i * len(schema)
		rows[i] = GenericParamConstraintTableRow{Owner: cols[b], Constraint: cols[b+1]}
	}
	return rows, n, err
}
