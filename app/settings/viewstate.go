package settings

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"gridline/app/interfaces"
)

// ViewState is the externally persisted snapshot of a table's
// user-adjustable view. It is pure data: restoring it replays the
// values through the normal handles, nothing here carries behavior.
type ViewState struct {
	ColumnWidths map[string]string    `yaml:"columnWidths,omitempty" json:"columnWidths,omitempty"`
	ColumnOrder  []string             `yaml:"columnOrder,omitempty" json:"columnOrder,omitempty"`
	PinnedLeft   []string             `yaml:"pinnedLeft,omitempty" json:"pinnedLeft,omitempty"`
	PinnedRight  []string             `yaml:"pinnedRight,omitempty" json:"pinnedRight,omitempty"`
	Sort         []interfaces.SortKey `yaml:"sort,omitempty" json:"sort,omitempty"`
	PageSize     int                  `yaml:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// MarshalViewState serializes a snapshot to yaml.
func MarshalViewState(v ViewState) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal view state: %w", err)
	}
	return data, nil
}

// UnmarshalViewState restores a snapshot from yaml.
func UnmarshalViewState(data []byte) (ViewState, error) {
	var v ViewState
	if err := yaml.Unmarshal(data, &v); err != nil {
		return ViewState{}, fmt.Errorf("unmarshal view state: %w", err)
	}
	return v, nil
}
