package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"gridline/app/interfaces"
)

var testCtx = Context{ContainerWidth: 800, RootFontSize: 16, TableFontSize: 14}

func TestResolveUnits(t *testing.T) {
	assert.Equal(t, 120.0, Resolve(120, testCtx))
	assert.Equal(t, 120.0, Resolve("120", testCtx))
	assert.Equal(t, 120.0, Resolve("120px", testCtx))
	assert.Equal(t, 400.0, Resolve("50%", testCtx))
	assert.Equal(t, 80.0, Resolve("5rem", testCtx))
	assert.Equal(t, 70.0, Resolve("5em", testCtx))
	assert.Equal(t, float64(Auto), Resolve("auto", testCtx))
	assert.Equal(t, float64(Auto), Resolve(nil, testCtx))
}

func TestResolveNonsense(t *testing.T) {
	assert.Equal(t, 0.0, Resolve(-5, testCtx))
	assert.Equal(t, 0.0, Resolve("-3rem", testCtx))
	assert.Equal(t, 0.0, Resolve(math.NaN(), testCtx))
	assert.Equal(t, 0.0, Resolve("bogus", testCtx))
	assert.Equal(t, 0.0, Resolve(struct{}{}, testCtx))
}

// The reference layout: container=800, a=5rem, b flex 2, c flex 1,
// d=10%. Fixed widths consume 160, flex columns split the remaining
// 640 as 2:1.
func TestComputeFlexDistribution(t *testing.T) {
	defs := []ColumnDef{
		{Key: "a", Width: "5rem"},
		{Key: "b", Flex: 2},
		{Key: "c", Flex: 1},
		{Key: "d", Width: "10%"},
	}
	l := Compute(defs, nil, Pins{}, testCtx, RowSpec{NumLines: 1, LineHeight: 20})

	assert.InDelta(t, 80, l.GetWidth("a"), 0.01)
	assert.InDelta(t, 640.0*2/3, l.GetWidth("b"), 0.01)
	assert.InDelta(t, 640.0/3, l.GetWidth("c"), 0.01)
	assert.InDelta(t, 80, l.GetWidth("d"), 0.01)

	assert.InDelta(t, 0, l.GetOffset("a"), 0.01)
	assert.InDelta(t, 80, l.GetOffset("b"), 0.01)
	assert.InDelta(t, 506.67, l.GetOffset("c"), 0.01)
	assert.InDelta(t, 720, l.GetOffset("d"), 0.01)

	// With an unclamped flex column, the center fills the budget.
	assert.InDelta(t, 800, l.CenterTotal, 0.01)
	assert.InDelta(t, 800, l.TotalWidth, 0.01)
}

func TestComputePinRegions(t *testing.T) {
	defs := []ColumnDef{
		{Key: "id", Width: 60},
		{Key: "name", Flex: 1},
		{Key: "score", Width: 100},
		{Key: "actions", Width: 40},
	}
	pins := Pins{Left: []string{"id"}, Right: []string{"actions"}}
	l := Compute(defs, nil, pins, testCtx, RowSpec{NumLines: 1, LineHeight: 20})

	assert.Equal(t, interfaces.RegionLeft, l.GetRegion("id"))
	assert.Equal(t, interfaces.RegionCenter, l.GetRegion("name"))
	assert.Equal(t, interfaces.RegionRight, l.GetRegion("actions"))

	assert.Equal(t, 60.0, l.LeftTotal)
	assert.Equal(t, 40.0, l.RightTotal)

	// Offsets restart at zero per region.
	assert.Equal(t, 0.0, l.GetOffset("id"))
	assert.Equal(t, 0.0, l.GetOffset("name"))
	assert.Equal(t, 0.0, l.GetOffset("actions"))

	// Center budget = container - pinned totals; flex fills it minus
	// the fixed center column.
	assert.InDelta(t, 800-60-40-100, l.GetWidth("name"), 0.01)
	assert.InDelta(t, 800-60-40, l.CenterTotal, 0.01)
}

func TestComputeClampRedistribution(t *testing.T) {
	defs := []ColumnDef{
		{Key: "a", Flex: 1, Max: 100},
		{Key: "b", Flex: 1},
	}
	l := Compute(defs, nil, Pins{}, testCtx, RowSpec{NumLines: 1, LineHeight: 20})

	// a clamps at 100; its surplus flows to b.
	assert.Equal(t, 100.0, l.GetWidth("a"))
	assert.InDelta(t, 700, l.GetWidth("b"), 0.01)
	assert.InDelta(t, 800, l.CenterTotal, 0.01)
}

func TestComputeAllClampedOverflow(t *testing.T) {
	defs := []ColumnDef{
		{Key: "a", Flex: 1, Min: 500},
		{Key: "b", Flex: 1, Min: 500},
	}
	l := Compute(defs, nil, Pins{}, testCtx, RowSpec{NumLines: 1, LineHeight: 20})

	// Both clamp to their min; the overflow beyond the 800px budget
	// stands.
	assert.Equal(t, 500.0, l.GetWidth("a"))
	assert.Equal(t, 500.0, l.GetWidth("b"))
	assert.Equal(t, 1000.0, l.CenterTotal)
}

func TestComputeCategoryDefaults(t *testing.T) {
	schemas := map[string]interfaces.ColumnSchema{
		"n":  {Key: "n", SQLType: "INTEGER", Category: interfaces.CategoryNumeric},
		"ts": {Key: "ts", SQLType: "TIMESTAMP", Category: interfaces.CategoryTemporal},
	}
	defs := []ColumnDef{
		{Key: "n", Width: "auto"},
		{Key: "ts"},
	}
	l := Compute(defs, schemas, Pins{}, testCtx, RowSpec{NumLines: 1, LineHeight: 20})

	assert.Equal(t, 7*16.0, l.GetWidth("n"))
	assert.Equal(t, 13*16.0, l.GetWidth("ts"))
}

func TestComputeZeroContainer(t *testing.T) {
	ctx := Context{ContainerWidth: 0, RootFontSize: 16, TableFontSize: 14}
	defs := []ColumnDef{
		{Key: "fixed", Width: 120},
		{Key: "flex", Flex: 1},
	}
	l := Compute(defs, nil, Pins{}, ctx, RowSpec{NumLines: 1, LineHeight: 20})

	assert.Equal(t, 120.0, l.GetWidth("fixed"))
	assert.Equal(t, 0.0, l.GetWidth("flex"))
}

func TestRowHeight(t *testing.T) {
	l := Compute(nil, nil, Pins{}, testCtx, RowSpec{NumLines: 2, LineHeight: "1.5em", Padding: "8px"})
	assert.InDelta(t, 2*1.5*14+8, l.RowHeight, 0.01)
}
