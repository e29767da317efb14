// Package settings holds the viewer's tunables and the serializable
// view-state snapshot. Settings files are yaml; missing fields fall
// back to defaults.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the table core's tunables.
type Settings struct {
	// Overscan is the number of rows rendered beyond each viewport edge.
	Overscan int `yaml:"overscan" json:"overscan"`

	// PadFactor scales the fetch band beyond the render range.
	PadFactor int `yaml:"padFactor" json:"padFactor"`

	// RetentionMultiple scales the model's retention radius relative to
	// the fetch limit.
	RetentionMultiple int `yaml:"retentionMultiple" json:"retentionMultiple"`

	// PageSize is the eviction page granularity of the data model.
	PageSize int `yaml:"pageSize" json:"pageSize"`

	// RootFontSize and TableFontSize feed rem/em unit resolution.
	RootFontSize  float64 `yaml:"rootFontSize" json:"rootFontSize"`
	TableFontSize float64 `yaml:"tableFontSize" json:"tableFontSize"`

	// RowLines, LineHeight and RowPadding define row geometry.
	RowLines   int    `yaml:"rowLines" json:"rowLines"`
	LineHeight string `yaml:"lineHeight" json:"lineHeight"`
	RowPadding string `yaml:"rowPadding" json:"rowPadding"`
}

// DefaultSettings returns the shipped defaults.
func DefaultSettings() Settings {
	return Settings{
		Overscan:          6,
		PadFactor:         3,
		RetentionMultiple: 2,
		PageSize:          128,
		RootFontSize:      16,
		TableFontSize:     14,
		RowLines:          1,
		LineHeight:        "1.5em",
		RowPadding:        "8px",
	}
}

// Load reads settings from a yaml file, merging over the defaults.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	return s.effective(), nil
}

// effective replaces out-of-range values with defaults.
func (s Settings) effective() Settings {
	def := DefaultSettings()
	if s.Overscan < 0 {
		s.Overscan = def.Overscan
	}
	if s.PadFactor < 3 {
		s.PadFactor = def.PadFactor
	}
	if s.RetentionMultiple < 1 {
		s.RetentionMultiple = def.RetentionMultiple
	}
	if s.PageSize < 1 {
		s.PageSize = def.PageSize
	}
	if s.RootFontSize <= 0 {
		s.RootFontSize = def.RootFontSize
	}
	if s.TableFontSize <= 0 {
		s.TableFontSize = def.TableFontSize
	}
	if s.RowLines < 1 {
		s.RowLines = def.RowLines
	}
	if s.LineHeight == "" {
		s.LineHeight = def.LineHeight
	}
	if s.RowPadding == "" {
		s.RowPadding = def.RowPadding
	}
	return s
}
