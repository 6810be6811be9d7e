// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// tableSchemas gives every ECMA-335 table kind's column list, in row
// order, as data rather than as 45 separate readers: loadTables drives
// each one through the single decodeRows engine in schema.go, and every
// parseMetadata*Table function below only maps the resulting flat column
// slice onto its own named struct.
var tableSchemas = map[int][]column{
	Module:    {col2(), colIdx(idxString), colIdx(idxGUID), colIdx(idxGUID), colIdx(idxGUID)},
	TypeRef:   {colIdx(idxResolutionScope), colIdx(idxString), colIdx(idxString)},
	TypeDef:   {col4(), colIdx(idxString), colIdx(idxString), colIdx(idxTypeDefOrRef), colIdx(idxField), colIdx(idxMethodDef)},
	FieldPtr:  {colIdx(idxField)},
	Field:     {col2(), colIdx(idxString), colIdx(idxBlob)},
	MethodPtr: {colIdx(idxMethodDef)},
	MethodDef: {col4(), col2(), col2(), colIdx(idxString), colIdx(idxBlob), colIdx(idxParam)},
	ParamPtr:  {colIdx(idxParam)},
	Param:     {col2(), col2(), colIdx(idxString)},

	InterfaceImpl: {colIdx(idxTypeDef), colIdx(idxTypeDefOrRef)},
	MemberRef:     {colIdx(idxMemberRefParent), colIdx(idxString), colIdx(idxBlob)},
	Constant:      {col1(), col1(), colIdx(idxHasConstant), colIdx(idxBlob)},

	CustomAttribute: {colIdx(idxHasCustomAttributes), colIdx(idxCustomAttributeType), colIdx(idxBlob)},
	FieldMarshal:    {colIdx(idxHasFieldMarshall), colIdx(idxBlob)},
	DeclSecurity:    {col2(), colIdx(idxHasDeclSecurity), colIdx(idxBlob)},
	ClassLayout:     {col2(), col4(), colIdx(idxTypeDef)},
	FieldLayout:     {col4(), colIdx(idxField)},
	StandAloneSig:   {colIdx(idxBlob)},

	EventMap:    {colIdx(idxTypeDef), colIdx(idxEvent)},
	EventPtr:    {colIdx(idxEvent)},
	Event:       {col2(), colIdx(idxString), colIdx(idxTypeDefOrRef)},
	PropertyMap: {colIdx(idxTypeDef), colIdx(idxProperty)},
	PropertyPtr: {colIdx(idxProperty)},
	Property:    {col2(), colIdx(idxString), colIdx(idxBlob)},

	MethodSemantics: {col2(), colIdx(idxMethodDef), colIdx(idxHasSemantics)},
	MethodImpl:      {colIdx(idxTypeDef), colIdx(idxMethodDefOrRef), colIdx(idxMethodDefOrRef)},
	ModuleRef:       {colIdx(idxString)},
	TypeSpec:        {colIdx(idxBlob)},
	ImplMap:         {col2(), colIdx(idxMemberForwarded), colIdx(idxString), colIdx(idxModuleRef)},
	FieldRVA:        {col4(), colIdx(idxField)},

	ENCLog: {col4(), col4()},
	ENCMap: {col4()},

	Assembly:             {col4(), col2(), col2(), col2(), col2(), col4(), colIdx(idxBlob), colIdx(idxString), colIdx(idxString)},
	AssemblyProcessor:    {col4()},
	AssemblyOS:           {col4(), col4(), col4()},
	AssemblyRef:          {col2(), col2(), col2(), col2(), col4(), colIdx(idxBlob), colIdx(idxString), colIdx(idxString), colIdx(idxBlob)},
	AssemblyRefProcessor: {col4(), colIdx(idxAssemblyRef)},
	AssemblyRefOS:        {col4(), col4(), col4(), colIdx(idxAssemblyRef)},

	FileMD:           {col4(), colIdx(idxString), colIdx(idxBlob)},
	ExportedType:     {col4(), col4(), colIdx(idxString), colIdx(idxString), colIdx(idxImplementation)},
	ManifestResource: {col4(), col4(), colIdx(idxString), colIdx(idxImplementation)},
	NestedClass:      {colIdx(idxTypeDef), colIdx(idxTypeDef)},

	GenericParam:           {col2(), col2(), colIdx(idxTypeOrMethodDef), colIdx(idxString)},
	MethodSpec:             {colIdx(idxMethodDefOrRef), colIdx(idxBlob)},
	GenericParamConstraint: {colIdx(idxGenericParam), colIdx(idxTypeDefOrRef)},
}
