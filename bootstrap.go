// bootstrap.go - Table schema bootstrap from Serialized Dictionary Information
//
// The table's schema lives inside the tablespace itself, as a zlib-deflated
// JSON blob stored in a row of the SDI B+-tree. Decoding that row requires a
// schema of its own; the hard-coded pseudo-schema in schema.SdiIndex breaks
// the cycle. The walk: descend the SDI tree to its leftmost leaf, scan
// forward for the table record, reassemble its value from any overflow
// chain, inflate, and build the user table's layout from the JSON.
package ibdviewer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/internal/logging"
	"github.com/vnt-dev/ibd-viewer/page"
	"github.com/vnt-dev/ibd-viewer/record"
	"github.com/vnt-dev/ibd-viewer/schema"
)

// SdiRootPage is where MySQL 8 places the SDI index root in a single-table
// tablespace. The FSP header also records it; page 3 holds for every file
// this tool targets.
const SdiRootPage uint32 = 3

const sdiTypeTable = 1

var (
	// ErrNoTableSDI means the SDI index holds no table record.
	ErrNoTableSDI = errors.New("no table SDI record found")

	// ErrUnknownHiddenColumn means the dictionary names a hidden column
	// this decoder has no width for; decoding records would misalign.
	ErrUnknownHiddenColumn = errors.New("unknown hidden column")
)

// Column indexes in the SDI record layouts (schema.SdiIndex).
const (
	sdiColType  = 0
	sdiColValue = 6
	sdiColChild = 2
)

// ReadTableInfo walks the SDI index rooted at sdiRoot and returns the
// table's schema.
func ReadTableInfo(src PageSource, sdiRoot uint32) (*schema.TableInfo, error) {
	leaf, err := leftmostSdiLeaf(src, sdiRoot)
	if err != nil {
		return nil, err
	}
	for {
		for _, row := range leaf.UserRecords {
			if row.Header().Deleted {
				continue
			}
			data, _ := row.Col(sdiColType)
			sdiType, _ := format.Be32(data, 0)
			if sdiType != sdiTypeTable {
				continue
			}
			raw, err := sdiValue(src, row)
			if err != nil {
				return nil, err
			}
			return tableInfoFromSdi(raw)
		}
		next := leaf.Inner.FIL.Next
		if next == nil {
			return nil, ErrNoTableSDI
		}
		leaf, err = sdiPage(src, *next)
		if err != nil {
			return nil, err
		}
	}
}

// leftmostSdiLeaf descends from the root, always through the first live
// node-pointer record.
func leftmostSdiLeaf(src PageSource, pageNo uint32) (*page.SdiPage, error) {
	p, err := sdiPage(src, pageNo)
	if err != nil {
		return nil, err
	}
	for p.Hdr.PageLevel != 0 {
		var child *uint32
		for _, row := range p.UserRecords {
			if row.Header().Deleted {
				continue
			}
			data, _ := row.Col(sdiColChild)
			c, err := format.Be32(data, 0)
			if err != nil {
				return nil, fmt.Errorf("sdi page %d: child pointer: %w", p.Inner.PageNo, err)
			}
			child = &c
			break
		}
		if child == nil {
			return nil, fmt.Errorf("sdi page %d at level %d has no live records", p.Inner.PageNo, p.Hdr.PageLevel)
		}
		logging.Debug("sdi descent", "from", p.Inner.PageNo, "to", *child, "level", p.Hdr.PageLevel)
		p, err = sdiPage(src, *child)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func sdiPage(src PageSource, pageNo uint32) (*page.SdiPage, error) {
	buf, err := src.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}
	ip, err := page.NewInnerPage(pageNo, buf)
	if err != nil {
		return nil, err
	}
	return page.ParseSdi(ip)
}

// sdiValue returns the deflated sdi_value bytes of a table record,
// reassembling the overflow chain when the column spilled.
func sdiValue(src PageSource, row record.Row) ([]byte, error) {
	data, ptr := row.Col(sdiColValue)
	if ptr == nil {
		return data, nil
	}
	chain, err := readOverflowChain(src, ptr.PageNo)
	if err != nil {
		return nil, fmt.Errorf("sdi overflow chain: %w", err)
	}
	if uint64(len(chain)) != ptr.Length {
		logging.Warn("sdi overflow length mismatch", "pointer", ptr.Length, "assembled", len(chain))
	}
	logging.Debug("sdi overflow reassembled", "pages_start", ptr.PageNo, "bytes", len(chain))
	return append(append([]byte{}, data...), chain...), nil
}

// tableInfoFromSdi inflates and parses the dictionary JSON.
func tableInfoFromSdi(deflated []byte) (*schema.TableInfo, error) {
	zr, err := zlib.NewReader(bytes.NewReader(deflated))
	if err != nil {
		return nil, fmt.Errorf("sdi inflate: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("sdi inflate: %w", err)
	}
	logging.Debug("sdi inflated", "compressed", len(deflated), "uncompressed", len(raw))

	var doc sdiDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("sdi json: %w", err)
	}
	return buildTableInfo(doc.DDObject)
}

type sdiDocument struct {
	DDObject sdiObject `json:"dd_object"`
}

type sdiObject struct {
	Name    string      `json:"name"`
	Columns []sdiColumn `json:"columns"`
	Indexes []sdiIndex  `json:"indexes"`
}

type sdiColumn struct {
	Name            string `json:"name"`
	Type            uint8  `json:"type"`
	IsNullable      bool   `json:"is_nullable"`
	Hidden          int    `json:"hidden"`
	CharLength      int    `json:"char_length"`
	OrdinalPosition uint16 `json:"ordinal_position"`
}

type sdiIndex struct {
	Name          string       `json:"name"`
	Type          int          `json:"type"`
	SePrivateData string       `json:"se_private_data"`
	Elements      []sdiElement `json:"elements"`
}

type sdiElement struct {
	Length    uint64 `json:"length"`
	ColumnOpx uint16 `json:"column_opx"`
}

// hidden == 2 marks storage-engine columns invisible to SQL.
const sdiHiddenSE = 2

func buildTableInfo(obj sdiObject) (*schema.TableInfo, error) {
	colByOpx := make(map[uint16]schema.Column, len(obj.Columns))
	for _, c := range obj.Columns {
		hidden := c.Hidden == sdiHiddenSE
		var dt schema.DataType
		if hidden {
			switch c.Name {
			case "DB_TRX_ID":
				dt = schema.DataType{Code: schema.TypeDbTrxID}
			case "DB_ROW_ID":
				dt = schema.DataType{Code: schema.TypeDbRowID}
			case "DB_ROLL_PTR":
				dt = schema.DataType{Code: schema.TypeDbRollPtr}
			default:
				return nil, fmt.Errorf("%w: %s", ErrUnknownHiddenColumn, c.Name)
			}
		} else {
			dt = schema.NewDataType(c.Type, c.CharLength)
		}
		colByOpx[c.OrdinalPosition-1] = schema.Column{
			Name:     c.Name,
			Type:     dt,
			Nullable: c.IsNullable,
			Hidden:   hidden,
			Ordinal:  c.OrdinalPosition,
		}
	}

	indexes := make(map[uint64]schema.Index, len(obj.Indexes))
	for _, ix := range obj.Indexes {
		id, root, err := parseSePrivateData(ix.SePrivateData)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", ix.Name, err)
		}
		var key, leaf []schema.Column
		for _, el := range ix.Elements {
			col, ok := colByOpx[el.ColumnOpx]
			if !ok {
				return nil, fmt.Errorf("index %s: element references column %d", ix.Name, el.ColumnOpx)
			}
			if el.Length < math.MaxUint32 {
				key = append(key, col)
			}
			leaf = append(leaf, col)
		}
		key = append(key, schema.ChildPageColumn(uint16(len(obj.Columns)+1)))
		indexes[id] = schema.Index{
			ID:          id,
			RootPage:    root,
			Name:        ix.Name,
			Primary:     ix.Type == 1,
			KeyColumns:  key,
			LeafColumns: leaf,
		}
	}
	logging.Debug("table schema bootstrapped", "table", obj.Name, "indexes", len(indexes))
	return &schema.TableInfo{Name: obj.Name, Indexes: indexes}, nil
}

// parseSePrivateData extracts id and root from "k=v;..." pairs.
func parseSePrivateData(s string) (uint64, uint32, error) {
	var (
		id      uint64
		root    uint32
		gotID   bool
		gotRoot bool
	)
	for _, item := range strings.Split(s, ";") {
		if item == "" {
			continue
		}
		k, v, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		switch k {
		case "id":
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("se_private_data id: %w", err)
			}
			id, gotID = n, true
		case "root":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return 0, 0, fmt.Errorf("se_private_data root: %w", err)
			}
			root, gotRoot = uint32(n), true
		}
	}
	if !gotID || !gotRoot {
		return 0, 0, errors.New("se_private_data missing id or root")
	}
	return id, root, nil
}
