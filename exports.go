// exports.go - Re-exports for main package API
package ibdviewer

import (
	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/page"
	"github.com/vnt-dev/ibd-viewer/record"
	"github.com/vnt-dev/ibd-viewer/schema"
)

// Re-export types from the format package
type (
	PageType      = format.PageType
	PageFormat    = format.PageFormat
	PageDirection = format.PageDirection
	RecordType    = format.RecordType
)

// Re-export constants from the format package
const (
	PageSize        = format.PageSize
	PageTypeFspHdr  = format.PageTypeFspHdr
	PageTypeXdes    = format.PageTypeXdes
	PageTypeInode   = format.PageTypeInode
	PageTypeIndex   = format.PageTypeIndex
	PageTypeSDI     = format.PageTypeSDI
	PageTypeSdiBlob = format.PageTypeSdiBlob
	FormatCompact   = format.FormatCompact
	FormatRedundant = format.FormatRedundant
	NullPageNo      = format.NullPageNo
)

// Re-export types from the page package
type (
	Page        = page.Page
	InnerPage   = page.InnerPage
	IndexPage   = page.IndexPage
	SdiPage     = page.SdiPage
	SdiBlobPage = page.SdiBlobPage
	FspPage     = page.FspPage
	InodePage   = page.InodePage
	FilHeader   = page.FilHeader
	FilTrailer  = page.FilTrailer
)

// Re-export types from the record and schema packages
type (
	Row             = record.Row
	RecordHeader    = record.RecordHeader
	OverflowPointer = record.OverflowPointer
	TableInfo       = schema.TableInfo
	Index           = schema.Index
	Column          = schema.Column
	DataType        = schema.DataType
)

// Re-export functions
var (
	NewInnerPage     = page.NewInnerPage
	Classify         = page.Classify
	ParseIndexPage   = page.ParseIndex
	ParseFspPage     = page.ParseFsp
	TableInfoFromSQL = schema.TableInfoFromSQL
)
