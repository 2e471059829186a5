package trace

import "github.com/davecgh/go-spew/spew"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders a value with full structure for debug output
func Dump(v any) string {
	return dumper.Sdump(v)
}
