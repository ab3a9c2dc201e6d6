// ibd-viewer inspects InnoDB .ibd tablespace files: it lists the pages of a
// tablespace and dumps any single page in decoded form.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	ibdviewer "github.com/vnt-dev/ibd-viewer"
	"github.com/vnt-dev/ibd-viewer/internal/logging"
	"github.com/vnt-dev/ibd-viewer/page"
	"github.com/vnt-dev/ibd-viewer/schema"
)

var cli struct {
	Verbose bool   `short:"v" help:"Enable debug logging."`
	NoColor bool   `help:"Disable colorized output."`
	SQL     string `help:"CREATE TABLE file used as schema fallback when the SDI bootstrap fails." type:"existingfile"`

	List listCmd `cmd:"" help:"List every page in the tablespace."`
	Page pageCmd `cmd:"" help:"Dump one decoded page."`
}

type listCmd struct {
	Path string `arg:"" help:"Path to the .ibd file." type:"existingfile"`
}

type pageCmd struct {
	Path string `arg:"" help:"Path to the .ibd file." type:"existingfile"`
	Num  uint32 `arg:"" help:"Page number."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("ibd-viewer"),
		kong.Description("An offline decoder and inspector for InnoDB tablespace files."),
		kong.UsageOnError(),
	)
	if cli.Verbose {
		logging.Init(logging.LevelDebug, logging.FormatText)
	}
	if cli.NoColor {
		color.NoColor = true
	}
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// open bootstraps the schema from the SDI index, falling back to --sql when
// one was given.
func open(path string) (*ibdviewer.Tablespace, error) {
	ts, err := ibdviewer.Open(path)
	if err == nil {
		return ts, nil
	}
	if cli.SQL == "" {
		return nil, err
	}
	logging.Warn("sdi bootstrap failed, using CREATE TABLE schema", "error", err, "sql", cli.SQL)
	info, sqlErr := schema.TableInfoFromSQLFile(cli.SQL)
	if sqlErr != nil {
		return nil, fmt.Errorf("schema fallback: %w", sqlErr)
	}
	src, srcErr := ibdviewer.OpenFile(path)
	if srcErr != nil {
		return nil, srcErr
	}
	return ibdviewer.NewTablespaceWithInfo(src, info), nil
}

func (c *listCmd) Run() error {
	ts, err := open(c.Path)
	if err != nil {
		return err
	}
	defer ts.Close()

	fsp, err := ts.FspPage()
	if err != nil {
		return err
	}
	fmt.Printf("size: %d\n", fsp.Header.Size)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "page_num\tpage_type")
	for n := uint32(0); n < fsp.Header.Size; n++ {
		ip, err := ts.InnerPage(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\n", n, ip.FIL.PageType)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, root := range ts.IndexRoots() {
		fmt.Printf("index %s: root page %d\n", root.Name, root.RootPage)
	}
	return nil
}

func (c *pageCmd) Run() error {
	ts, err := open(c.Path)
	if err != nil {
		return err
	}
	defer ts.Close()

	ip, err := ts.InnerPage(c.Num)
	if err != nil {
		return err
	}
	p, perr := ibdviewer.Classify(ip, ts.Info)

	fmt.Printf("=== %s %d ===\n", color.GreenString("page"), c.Num)
	fmt.Println(ip.FIL)
	switch v := p.(type) {
	case nil, *page.UnknownPage:
		// FIL envelope only
	case *page.IndexPage:
		fmt.Println(v)
		fmt.Printf("used: %d / %d bytes\n", v.UsedBytes(), ibdviewer.PageSize)
	default:
		fmt.Println(p)
	}
	fmt.Println(ip.Trailer)
	return perr
}
