// Command gridline loads a dataset file into the in-memory coordinator
// and drives a virtualized table over it from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridline/app/fileloader"
	"gridline/app/interfaces"
	"gridline/app/memcoord"
	"gridline/app/settings"
	"gridline/app/table"
)

var (
	flagFilter   string
	flagSort     string
	flagRow      int
	flagRows     int
	flagWidth    float64
	flagJSONPath string
	flagNoHeader bool
	flagConfig   string
)

func main() {
	root := &cobra.Command{
		Use:   "gridline",
		Short: "Headless virtualized table viewer",
	}

	view := &cobra.Command{
		Use:   "view <file>",
		Short: "Load a dataset and print a window of rows",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	view.Flags().StringVar(&flagFilter, "filter", "", "filter predicate, e.g. \"status = 'active' AND amount > 100\"")
	view.Flags().StringVar(&flagSort, "sort", "", "sort spec, e.g. \"amount:desc,name\"")
	view.Flags().IntVar(&flagRow, "row", 0, "scroll to this row")
	view.Flags().IntVar(&flagRows, "rows", 25, "number of rows to print")
	view.Flags().Float64Var(&flagWidth, "width", 1200, "container width in pixels")
	view.Flags().StringVar(&flagJSONPath, "jpath", "", "jsonpath to the record array in JSON files")
	view.Flags().BoolVar(&flagNoHeader, "no-header", false, "treat the first row as data")
	view.Flags().StringVar(&flagConfig, "config", "", "settings yaml file")

	schemaCmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the inferred column schema of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchema,
	}
	schemaCmd.Flags().StringVar(&flagJSONPath, "jpath", "", "jsonpath to the record array in JSON files")
	schemaCmd.Flags().BoolVar(&flagNoHeader, "no-header", false, "treat the first row as data")

	root.AddCommand(view, schemaCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadDataset(path string) (*memcoord.Dataset, error) {
	opts := fileloader.Options{JSONPath: flagJSONPath, NoHeaderRow: flagNoHeader}
	var (
		loaded *fileloader.Table
		err    error
	)
	if strings.ContainsAny(path, "*?[") {
		loaded, err = fileloader.LoadGlob(path, opts)
	} else {
		loaded, err = fileloader.Load(path, opts)
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return memcoord.NewDataset(name, loaded.Header, loaded.Rows, nil), nil
}

func runView(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	coord := memcoord.New(memcoord.WithSyncDelivery())
	coord.Register(ds)

	cfg := settings.DefaultSettings()
	if flagConfig != "" {
		if cfg, err = settings.Load(flagConfig); err != nil {
			return err
		}
	}

	filterBy := interfaces.NewSelection()
	t, err := table.Open(coord, ds.Name, table.Options{
		FilterBy:       filterBy,
		Settings:       cfg,
		ContainerWidth: flagWidth,
		ViewportWidth:  flagWidth,
		ViewportHeight: float64(flagRows) * 30,
	})
	if err != nil {
		return err
	}
	defer t.Close()

	if flagFilter != "" {
		filterBy.Update(flagFilter)
	}
	if flagSort != "" {
		t.Data().SetSort(parseSortSpec(flagSort))
	}
	if flagRow > 0 {
		t.Scroll().ScrollToRow(flagRow)
	}

	// The frame ticker drives the fetch asynchronously; wait until the
	// visible rows have landed before reading the window.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		vr := t.Scroll().VisibleRowRange()
		if vr.Len() == 0 || t.Data().HasRow(vr.Start) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	printWindow(t, flagRows)
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	coord := memcoord.New()
	coord.Register(ds)
	fields, err := coord.QueryFieldInfo(ds.Name)
	if err != nil {
		return err
	}
	for _, f := range fields {
		fmt.Printf("%-24s %s\n", f.Column, f.SQLType)
	}
	return nil
}

// parseSortSpec parses "col:desc,col2" into sort keys.
func parseSortSpec(spec string) []interfaces.SortKey {
	var keys []interfaces.SortKey
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, dir, _ := strings.Cut(part, ":")
		keys = append(keys, interfaces.SortKey{
			Column: strings.TrimSpace(col),
			Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	return keys
}

func printWindow(t *table.Table, rows int) {
	data := t.Data()
	lay := t.Layout()
	visible := t.Scroll().VisibleRowRange()

	fmt.Printf("rows %d-%d of %d (scrollTop %.0f, rowHeight %.1f)\n\n",
		visible.Start, visible.End, data.TotalRows(), t.Scroll().ScrollTop(), lay.RowHeight())

	schema := data.Schema()
	for _, col := range schema {
		fmt.Printf("%-*s", cellWidth(lay.GetWidth(col.Key)), truncate(col.Key, cellWidth(lay.GetWidth(col.Key))-1))
	}
	fmt.Println()

	end := visible.Start + rows
	if end > visible.End {
		end = visible.End
	}
	for i := visible.Start; i < end; i++ {
		rec := data.GetRow(i)
		if rec == nil {
			fmt.Println("(loading)")
			continue
		}
		for _, col := range schema {
			w := cellWidth(lay.GetWidth(col.Key))
			fmt.Printf("%-*s", w, truncate(formatCell(rec[col.Key]), w-1))
		}
		fmt.Println()
	}
}

// cellWidth maps a pixel width to a character budget for terminal
// rendering.
func cellWidth(px float64) int {
	w := int(px / 8)
	if w < 8 {
		w = 8
	}
	if w > 40 {
		w = 40
	}
	return w
}

func truncate(s string, n int) string {
	if n < 1 {
		n = 1
	}
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case interfaces.BigValue:
		return val.Display
	case interfaces.Instant:
		return val.Raw
	case interfaces.RawValue:
		return val.Raw
	default:
		return fmt.Sprintf("%v", val)
	}
}
