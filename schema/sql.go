// sql.go - Fallback schema from a CREATE TABLE statement
//
// SDI is the authoritative schema source, but a stripped or corrupted SDI
// index leaves the tablespace unreadable. This builds an equivalent
// TableInfo from the table's CREATE TABLE statement instead; the clustered
// index layout is synthesized the way InnoDB lays it out (primary key,
// hidden transaction columns, remaining columns). Root page numbers are not
// knowable from SQL and stay unset.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ErrUnsupportedType reports a column type with no InnoDB wire mapping.
var ErrUnsupportedType = errors.New("unsupported column type")

// UnknownRootPage marks an index whose root page number is not known.
const UnknownRootPage uint32 = 0xFFFFFFFF

var sqlTypeCodes = map[string]TypeCode{
	"tinyint":    TypeTinyint,
	"smallint":   TypeSmallint,
	"int":        TypeInt,
	"integer":    TypeInt,
	"float":      TypeFloat,
	"double":     TypeDouble,
	"real":       TypeDouble,
	"bigint":     TypeBigint,
	"mediumint":  TypeMediumint,
	"timestamp":  TypeTimestamp,
	"year":       TypeYear,
	"date":       TypeDate,
	"varchar":    TypeVarchar,
	"bit":        TypeBit,
	"datetime":   TypeDatetime,
	"time":       TypeTime,
	"decimal":    TypeDecimal,
	"dec":        TypeDecimal,
	"numeric":    TypeDecimal,
	"tinytext":   TypeTinytext,
	"mediumtext": TypeMediumtext,
	"longtext":   TypeLongtext,
	"text":       TypeText,
	"char":       TypeChar,
}

// TableInfoFromSQL parses a CREATE TABLE statement into a TableInfo with a
// single synthesized clustered index.
func TableInfoFromSQL(sql string) (*TableInfo, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse SQL: %w", err)
	}
	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr {
		return nil, errors.New("statement is not CREATE TABLE")
	}
	if ddl.TableSpec == nil {
		return nil, errors.New("no table spec in CREATE TABLE")
	}

	var cols []Column
	for i, def := range ddl.TableSpec.Columns {
		col, err := columnFromSQL(def, uint16(i+1))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", def.Name.String(), err)
		}
		cols = append(cols, col)
	}

	var pkNames []string
	for _, idx := range ddl.TableSpec.Indexes {
		if idx.Info.Primary {
			pkNames = nil
			for _, ic := range idx.Columns {
				pkNames = append(pkNames, ic.Column.Lowered())
			}
		}
	}

	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[strings.ToLower(c.Name)] = c
	}

	next := uint16(len(cols) + 1)
	var key, leaf []Column
	for _, name := range pkNames {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("primary key column %s not found", name)
		}
		key = append(key, c)
		leaf = append(leaf, c)
	}
	if len(pkNames) == 0 {
		rowID := Column{Name: "DB_ROW_ID", Type: DataType{Code: TypeDbRowID}, Hidden: true, Ordinal: next}
		next++
		key = append(key, rowID)
		leaf = append(leaf, rowID)
	}
	leaf = append(leaf,
		Column{Name: "DB_TRX_ID", Type: DataType{Code: TypeDbTrxID}, Hidden: true, Ordinal: next},
		Column{Name: "DB_ROLL_PTR", Type: DataType{Code: TypeDbRollPtr}, Hidden: true, Ordinal: next + 1},
	)
	next += 2
	for _, c := range cols {
		if !inNames(pkNames, c.Name) {
			leaf = append(leaf, c)
		}
	}
	key = append(key, ChildPageColumn(next))

	ix := Index{
		RootPage:    UnknownRootPage,
		Name:        "PRIMARY",
		Primary:     true,
		KeyColumns:  key,
		LeafColumns: leaf,
	}
	return &TableInfo{
		Name:    ddl.NewName.Name.String(),
		Indexes: map[uint64]Index{ix.ID: ix},
	}, nil
}

// TableInfoFromSQLFile reads a CREATE TABLE statement from a file.
func TableInfoFromSQLFile(path string) (*TableInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read SQL file: %w", err)
	}
	return TableInfoFromSQL(string(content))
}

func columnFromSQL(def *sqlparser.ColumnDefinition, ordinal uint16) (Column, error) {
	code, ok := sqlTypeCodes[strings.ToLower(def.Type.Type)]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s", ErrUnsupportedType, def.Type.Type)
	}
	length := 0
	if def.Type.Length != nil {
		if n, err := strconv.Atoi(string(def.Type.Length.Val)); err == nil {
			length = n
		}
	}
	return Column{
		Name:     def.Name.String(),
		Type:     NewDataType(uint8(code), length),
		Nullable: !bool(def.Type.NotNull),
		Ordinal:  ordinal,
	}, nil
}

func inNames(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
