package layout

import (
	"math"
	"strconv"
	"strings"
)

// Auto is the sentinel a unit resolution returns for "auto" widths;
// they are resolved later by category inference.
const Auto = -1

// Context carries the measurements unit resolution depends on.
type Context struct {
	ContainerWidth float64
	RootFontSize   float64
	TableFontSize  float64
}

// Resolve converts a mixed-unit size declaration to pixels. Accepted
// forms: a raw number (pixels), "N", "Npx", "N%", "Nrem", "Nem", and
// the literal "auto". Nonsensical inputs (negative, NaN, unparseable)
// clamp to zero.
func Resolve(value any, ctx Context) float64 {
	switch v := value.(type) {
	case nil:
		return Auto
	case int:
		return clampPx(float64(v))
	case int64:
		return clampPx(float64(v))
	case float32:
		return clampPx(float64(v))
	case float64:
		return clampPx(v)
	case string:
		return resolveString(v, ctx)
	default:
		return 0
	}
}

func resolveString(s string, ctx Context) float64 {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Auto
	}
	if s == "auto" {
		return Auto
	}

	switch {
	case strings.HasSuffix(s, "px"):
		return clampPx(parseNum(strings.TrimSuffix(s, "px")))
	case strings.HasSuffix(s, "%"):
		n := parseNum(strings.TrimSuffix(s, "%"))
		return clampPx(n / 100 * ctx.ContainerWidth)
	case strings.HasSuffix(s, "rem"):
		return clampPx(parseNum(strings.TrimSuffix(s, "rem")) * ctx.RootFontSize)
	case strings.HasSuffix(s, "em"):
		return clampPx(parseNum(strings.TrimSuffix(s, "em")) * ctx.TableFontSize)
	default:
		return clampPx(parseNum(s))
	}
}

func parseNum(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return n
}

func clampPx(n float64) float64 {
	if math.IsNaN(n) || n < 0 {
		return 0
	}
	return n
}
