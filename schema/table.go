// table.go - Table, index and column model built from the tablespace's SDI
package schema

// Column is one column of a table as stored in an index record.
type Column struct {
	Name     string
	Type     DataType
	Nullable bool
	Hidden   bool
	Ordinal  uint16
}

// Index describes one B+-tree of the table. KeyColumns is the physical
// record layout on non-leaf pages (key prefix plus the child page pointer);
// LeafColumns is the layout on leaf pages (full row including the hidden
// transaction columns). Both lists are in physical storage order.
type Index struct {
	ID       uint64
	RootPage uint32
	Name     string
	Primary  bool

	KeyColumns  []Column
	LeafColumns []Column
}

// ColumnsFor returns the record layout for a page at the given B+-tree
// level: leaf columns at level 0, key columns above.
func (ix Index) ColumnsFor(level uint16) []Column {
	if level == 0 {
		return ix.LeafColumns
	}
	return ix.KeyColumns
}

// TableInfo is the decoded table schema keyed by on-disk index id.
type TableInfo struct {
	Name    string
	Indexes map[uint64]Index
}

// PrimaryIndex returns the clustered index, if the table has one.
func (t *TableInfo) PrimaryIndex() (Index, bool) {
	for _, ix := range t.Indexes {
		if ix.Primary {
			return ix, true
		}
	}
	return Index{}, false
}

// SdiIndexID is the synthetic id of the SDI B+-tree.
const SdiIndexID uint64 = 0xFFFFFFFFFFFFFFFF

// ChildPageColumn is the synthetic pointer column appended to every
// non-leaf record layout.
func ChildPageColumn(ordinal uint16) Column {
	return Column{
		Name:    "child_page_num",
		Type:    DataType{Code: TypeInt},
		Hidden:  true,
		Ordinal: ordinal,
	}
}

// SdiIndex is the hard-coded pseudo-schema of the SDI index. The real
// schema of the SDI rows never appears in the dictionary; this is the
// bootstrap anchor that lets the dictionary describe itself.
func SdiIndex(rootPage uint32) Index {
	sdiType := Column{Name: "sdi_type", Type: DataType{Code: TypeInt}, Ordinal: 1}
	sdiID := Column{Name: "sdi_id", Type: DataType{Code: TypeBigint}, Ordinal: 2}
	trxID := Column{Name: "DB_TRX_ID", Type: DataType{Code: TypeDbTrxID}, Hidden: true, Ordinal: 3}
	rollPtr := Column{Name: "DB_ROLL_PTR", Type: DataType{Code: TypeDbRollPtr}, Hidden: true, Ordinal: 4}
	uncompLen := Column{Name: "sdi_uncomp_len", Type: DataType{Code: TypeInt}, Ordinal: 5}
	compLen := Column{Name: "sdi_comp_len", Type: DataType{Code: TypeInt}, Ordinal: 6}
	value := Column{Name: "sdi_value", Type: DataType{Code: TypeVarchar}, Ordinal: 7}

	return Index{
		ID:          SdiIndexID,
		RootPage:    rootPage,
		Name:        "sdi_index",
		Primary:     true,
		KeyColumns:  []Column{sdiType, sdiID, ChildPageColumn(8)},
		LeafColumns: []Column{sdiType, sdiID, trxID, rollPtr, uncompLen, compLen, value},
	}
}
