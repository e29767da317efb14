package layout

import (
	"gridline/app/interfaces"
)

// ColumnDef is a user-declared column sizing. A column is sized either
// by an explicit Width or by a Flex weight; Min/Max constrain both.
// Width and Min/Max accept the full unit set of Resolve.
type ColumnDef struct {
	Key   string
	Width any
	Flex  float64
	Min   any
	Max   any
}

// Pins assigns columns to the left and right pin regions in declaration
// order. Columns in neither list belong to the center region.
type Pins struct {
	Left  []string
	Right []string
}

// RowSpec declares row geometry. LineHeight and Padding accept the full
// unit set of Resolve.
type RowSpec struct {
	NumLines   int
	LineHeight any
	Padding    any
}

// ResolvedColumn is one laid-out column: absolute pixel width, absolute
// pixel offset within its region (offsets restart at zero per region),
// and the assigned region.
type ResolvedColumn struct {
	Key    string
	Width  float64
	Offset float64
	Region interfaces.Region
}

// ColumnLayout is an immutable layout snapshot. Recomputation yields a
// new snapshot; consumers keep only the snapshots they were handed.
type ColumnLayout struct {
	Resolved    []ResolvedColumn
	TotalWidth  float64
	LeftTotal   float64
	CenterTotal float64
	RightTotal  float64
	RowHeight   float64

	byKey map[string]int
}

// GetWidth returns the resolved pixel width of a column, 0 if unknown.
func (l *ColumnLayout) GetWidth(key string) float64 {
	if i, ok := l.byKey[key]; ok {
		return l.Resolved[i].Width
	}
	return 0
}

// GetOffset returns the column's pixel offset within its region.
func (l *ColumnLayout) GetOffset(key string) float64 {
	if i, ok := l.byKey[key]; ok {
		return l.Resolved[i].Offset
	}
	return 0
}

// GetRegion returns the column's pin region, center if unknown.
func (l *ColumnLayout) GetRegion(key string) interfaces.Region {
	if i, ok := l.byKey[key]; ok {
		return l.Resolved[i].Region
	}
	return interfaces.RegionCenter
}

// column is the per-column working state of a layout pass.
type column struct {
	def      ColumnDef
	category interfaces.Category
	width    float64 // resolved fixed width, Auto when flex/inferred
	min, max float64 // 0 when unconstrained
	flex     float64
	clamped  bool
}

// Compute lays out the declared columns across the three pin regions.
// The schemas map supplies categories for default-width inference;
// missing entries infer as unknown.
func Compute(defs []ColumnDef, schemas map[string]interfaces.ColumnSchema, pins Pins, ctx Context, row RowSpec) *ColumnLayout {
	left, center, right := partition(defs, pins)

	leftCols := prepare(left, schemas, ctx)
	rightCols := prepare(right, schemas, ctx)
	centerCols := prepare(center, schemas, ctx)

	// Side regions size to their natural total: no budget to stretch
	// into, so flex columns there settle at their category default.
	leftTotal := layoutNatural(leftCols, ctx)
	rightTotal := layoutNatural(rightCols, ctx)

	centerBudget := ctx.ContainerWidth - leftTotal - rightTotal
	if centerBudget < 0 {
		centerBudget = 0
	}
	centerTotal := layoutBudget(centerCols, centerBudget, ctx)

	resolved := make([]ResolvedColumn, 0, len(defs))
	resolved = appendRegion(resolved, leftCols, interfaces.RegionLeft)
	resolved = appendRegion(resolved, centerCols, interfaces.RegionCenter)
	resolved = appendRegion(resolved, rightCols, interfaces.RegionRight)

	byKey := make(map[string]int, len(resolved))
	for i, rc := range resolved {
		byKey[rc.Key] = i
	}

	return &ColumnLayout{
		Resolved:    resolved,
		TotalWidth:  leftTotal + centerTotal + rightTotal,
		LeftTotal:   leftTotal,
		CenterTotal: centerTotal,
		RightTotal:  rightTotal,
		RowHeight:   rowHeight(row, ctx),
		byKey:       byKey,
	}
}

// rowHeight computes numLines × lineHeight + padding through the unit
// system.
func rowHeight(row RowSpec, ctx Context) float64 {
	lines := row.NumLines
	if lines < 1 {
		lines = 1
	}
	lh := Resolve(row.LineHeight, ctx)
	if lh <= 0 {
		lh = 1.5 * ctx.TableFontSize
	}
	pad := Resolve(row.Padding, ctx)
	if pad < 0 {
		pad = 0
	}
	return float64(lines)*lh + pad
}

// partition splits definitions into the three regions, pin lists keeping
// their declaration order.
func partition(defs []ColumnDef, pins Pins) (left, center, right []ColumnDef) {
	byKey := make(map[string]ColumnDef, len(defs))
	pinned := make(map[string]bool)
	for _, d := range defs {
		byKey[d.Key] = d
	}
	for _, k := range pins.Left {
		if d, ok := byKey[k]; ok {
			left = append(left, d)
			pinned[k] = true
		}
	}
	for _, k := range pins.Right {
		if d, ok := byKey[k]; ok && !pinned[k] {
			right = append(right, d)
			pinned[k] = true
		}
	}
	for _, d := range defs {
		if !pinned[d.Key] {
			center = append(center, d)
		}
	}
	return left, center, right
}

// prepare resolves every fixed width and min/max constraint to pixels.
func prepare(defs []ColumnDef, schemas map[string]interfaces.ColumnSchema, ctx Context) []*column {
	cols := make([]*column, len(defs))
	for i, d := range defs {
		cat := interfaces.CategoryUnknown
		if s, ok := schemas[d.Key]; ok {
			cat = s.Category
		}
		c := &column{def: d, category: cat, flex: d.Flex}
		if c.flex < 0 {
			c.flex = 0
		}

		c.width = Resolve(d.Width, ctx)

		c.min = 0
		if d.Min != nil {
			if m := Resolve(d.Min, ctx); m > 0 {
				c.min = m
			}
		}
		c.max = 0
		if d.Max != nil {
			if m := Resolve(d.Max, ctx); m > 0 {
				c.max = m
			}
		}

		// Auto or missing width without flex: category default.
		if c.width == Auto && c.flex == 0 {
			c.width = DefaultWidth(cat, ctx)
		}
		if c.width != Auto {
			c.width = clampMinMax(c.width, c.min, c.max)
		}
		cols[i] = c
	}
	return cols
}

// layoutNatural sizes a side region: fixed columns as resolved, flex
// columns at their category default. Returns the region total.
func layoutNatural(cols []*column, ctx Context) float64 {
	for _, c := range cols {
		if c.width == Auto {
			c.width = clampMinMax(DefaultWidth(c.category, ctx), c.min, c.max)
		}
	}
	return regionTotal(cols)
}

// layoutBudget sizes the center region: fixed widths subtract from the
// budget, the remainder distributes among flex columns proportional to
// weight, with a second proportional pass redistributing clamp surplus
// or shortfall across unclamped flex columns. If every flex column is
// clamped the overflow stands.
func layoutBudget(cols []*column, budget float64, ctx Context) float64 {
	fixed := 0.0
	var flexCols []*column
	totalFlex := 0.0
	for _, c := range cols {
		if c.width == Auto {
			flexCols = append(flexCols, c)
			totalFlex += c.flex
			continue
		}
		fixed += c.width
	}

	remaining := budget - fixed
	if remaining < 0 {
		remaining = 0
	}

	if len(flexCols) > 0 && totalFlex > 0 {
		for _, c := range flexCols {
			c.width = remaining * c.flex / totalFlex
		}

		// Clamp pass, then redistribute the difference across columns
		// that still have slack.
		slack := 0.0
		unclampedFlex := 0.0
		for _, c := range flexCols {
			clamped := clampMinMax(c.width, c.min, c.max)
			if clamped != c.width {
				slack += c.width - clamped
				c.width = clamped
				c.clamped = true
			} else {
				unclampedFlex += c.flex
			}
		}
		if slack != 0 && unclampedFlex > 0 {
			for _, c := range flexCols {
				if c.clamped {
					continue
				}
				c.width = clampMinMax(c.width+slack*c.flex/unclampedFlex, c.min, c.max)
			}
		}
	} else {
		for _, c := range flexCols {
			c.width = clampMinMax(DefaultWidth(c.category, ctx), c.min, c.max)
		}
	}

	return regionTotal(cols)
}

// regionTotal sums the region's resolved widths.
func regionTotal(cols []*column) float64 {
	total := 0.0
	for _, c := range cols {
		total += c.width
	}
	return total
}

func appendRegion(out []ResolvedColumn, cols []*column, region interfaces.Region) []ResolvedColumn {
	offset := 0.0
	for _, c := range cols {
		out = append(out, ResolvedColumn{
			Key:    c.def.Key,
			Width:  c.width,
			Offset: offset,
			Region: region,
		})
		offset += c.width
	}
	return out
}

func clampMinMax(w, min, max float64) float64 {
	if max > 0 && w > max {
		w = max
	}
	if min > 0 && w < min {
		w = min
	}
	if w < 0 {
		w = 0
	}
	return w
}
