// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package clr

// loadTables decodes every present table's rows in ascending table-kind
// order, which is the order ECMA-335 lays rows out in within the tables
// stream: row N's byte offset depends on every table before it in kind
// order, never on map iteration order. A table kind this decoder doesn't
// recognize (bit set in MaskValid beyond what ECMA-335 currently defines)
// is skipped with a warning; its row bytes can't be measured, so every
// table after it is abandoned too rather than guessing at an offset.
func (md *Metadata) loadTables() error {
	md.tablesOnce.Do(func() {
		md.tablesErr = md.doLoadTables()
	})
	return md.tablesErr
}

func (md *Metadata) doLoadTables() error {
	if md.Tables == nil {
		return nil
	}
	off := md.rowsOffset
	for i := 0; i < maxTableKinds; i++ {
		table, ok := md.Tables[i]
		if !ok {
			continue
		}

		var content interface{}
		var n uint32
		var err error

		switch i {
		case Module:
			content, n, err = md.parseMetadataModuleTable(off)
		case TypeRef:
			content, n, err = md.parseMetadataTypeRefTable(off)
		case TypeDef:
			content, n, err = md.parseMetadataTypeDefTable(off)
		case FieldPtr:
			content, n, err = md.parseMetadataFieldPtrTable(off)
		case Field:
			content, n, err = md.parseMetadataFieldTable(off)
		case MethodPtr:
			content, n, err = md.parseMetadataMethodPtrTable(off)
		case MethodDef:
			content, n, err = md.parseMetadataMethodDefTable(off)
		case ParamPtr:
			content, n, err = md.parseMetadataParamPtrTable(off)
		case Param:
			content, n, err = md.parseMetadataParamTable(off)
		case InterfaceImpl:
			content, n, err = md.parseMetadataInterfaceImplTable(off)
		case MemberRef:
			content, n, err = md.parseMetadataMemberRefTable(off)
		case Constant:
			content, n, err = md.parseMetadataConstantTable(off)
		case CustomAttribute:
			content, n, err = md.parseMetadataCustomAttributeTable(off)
		case FieldMarshal:
			content, n, err = md.parseMetadataFieldMarshalTable(off)
		case DeclSecurity:
			content, n, err = md.parseMetadataDeclSecurityTable(off)
		case ClassLayout:
			content, n, err = md.parseMetadataClassLayoutTable(off)
		case FieldLayout:
			content, n, err = md.parseMetadataFieldLayoutTable(off)
		case StandAloneSig:
			content, n, err = md.parseMetadataStandAloneSignTable(off)
		case EventMap:
			content, n, err = md.parseMetadataEventMapTable(off)
		case EventPtr:
			content, n, err = md.parseMetadataEventPtrTable(off)
		case Event:
			content, n, err = md.parseMetadataEventTable(off)
		case PropertyMap:
			content, n, err = md.parseMetadataPropertyMapTable(off)
		case PropertyPtr:
			content, n, err = md.parseMetadataPropertyPtrTable(off)
		case Property:
			content, n, err = md.parseMetadataPropertyTable(off)
		case MethodSemantics:
			content, n, err = md.parseMetadataMethodSemanticsTable(off)
		case MethodImpl:
			content, n, err = md.parseMetadataMethodImplTable(off)
		case ModuleRef:
			content, n, err = md.parseMetadataModuleRefTable(off)
		case TypeSpec:
			content, n, err = md.parseMetadataTypeSpecTable(off)
		case ImplMap:
			content, n, err = md.parseMetadataImplMapTable(off)
		case FieldRVA:
			content, n, err = md.parseMetadataFieldRVATable(off)
		case ENCLog:
			content, n, err = md.parseMetadataENCLogTable(off)
		case ENCMap:
			content, n, err = md.parseMetadataENCMapTable(off)
		case Assembly:
			content, n, err = md.parseMetadataAssemblyTable(off)
		case AssemblyProcessor:
			content, n, err = md.parseMetadataAssemblyProcessorTable(off)
		case AssemblyOS:
			content, n, err = md.parseMetadataAssemblyOSTable(off)
		case AssemblyRef:
			content, n, err = md.parseMetadataAssemblyRefTable(off)
		case AssemblyRefProcessor:
			content, n, err = md.parseMetadataAssemblyRefProcessorTable(off)
		case AssemblyRefOS:
			content, n, err = md.parseMetadataAssemblyRefOSTable(off)
		case FileMD:
			content, n, err = md.parseMetadataFileTable(off)
		case ExportedType:
			content, n, err = md.parseMetadataExportedTypeTable(off)
		case ManifestResource:
			content, n, err = md.parseMetadataManifestResourceTable(off)
		case NestedClass:
			content, n, err = md.parseMetadataNestedClassTable(off)
		case GenericParam:
			content, n, err = md.parseMetadataGenericParamTable(off)
		case MethodSpec:
			content, n, err = md.parseMetadataMethodSpecTable(off)
		case GenericParamConstraint:
			content, n, err = md.parseMetadataGenericParamConstraintTable(off)
		default:
			md.recordWarning("unrecognized table kind", MetadataTableIndexToString(i))
			return nil
		}

		if err != nil {
			md.recordWarning("truncated table row", table.Name)
			return nil
		}
		table.Content = content
		off += n
	}

	return md.linkTables()
}
