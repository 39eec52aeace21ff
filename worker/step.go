package worker

import (
	"github.com/ezrec/mailroom/value"
)

// Step is the trace record of a single executed instruction.
// Dynamic fields are nil when the execution did not get far enough to
// know them.
type Step struct {
	Index       int          `yaml:"index"`
	Name        string       `yaml:"name"`
	Label       string       `yaml:"label,omitempty"`
	ToLabel     string       `yaml:"toLabel,omitempty"`
	Param       string       `yaml:"param,omitempty"`
	FloorIndex  *int         `yaml:"floorIndex,omitempty"`
	PanelValue  *value.Value `yaml:"panelValue,omitempty"`
	ResultValue *value.Value `yaml:"resultValue,omitempty"`
	Operator    string       `yaml:"operator,omitempty"`
}
