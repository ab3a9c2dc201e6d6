// Package ibdviewer parses MySQL 8 InnoDB single-table tablespace (.ibd)
// files offline: it enumerates the 16 KiB pages, decodes any page into a
// typed structure, and bootstraps the table schema from the tablespace's
// own Serialized Dictionary Information.
//
// The packages are organized bottom-up:
//
//   - format: sizes, page-type and record-level enums, big-endian helpers
//   - schema: column data types, index layouts, SDI pseudo-schema, and a
//     CREATE TABLE fallback parser
//   - record: the compact record format (5-byte header, reverse-direction
//     null bitmap and variable-length prefix, overflow pointers)
//   - page: FIL envelope plus the typed page variants (FSP/XDES, inode,
//     index, SDI, SDI blob) and the page-type classifier
//
// This root package ties them together: PageSource reads raw pages,
// ReadTableInfo performs the SDI schema bootstrap, and Tablespace exposes
// decoded pages.
//
// Basic usage:
//
//	ts, _ := ibdviewer.Open("table.ibd")
//	defer ts.Close()
//
//	p, _ := ts.Page(4)
//	if idx, ok := p.(*page.IndexPage); ok {
//		for _, row := range idx.UserRecords {
//			fmt.Println(row)
//		}
//	}
//
// All decoded structures are immutable views into the page buffer they were
// parsed from; nothing is copied and nothing is written back.
package ibdviewer
