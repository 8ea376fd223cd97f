package layout

import "fmt"

// LayoutError reports content that cannot be placed on any page, such as a
// single bullet taller than the page. BlockIndex is the index the offending
// block would have received; it is -1 when the page geometry itself is unusable.
type LayoutError struct {
	BlockIndex  int
	Section     int
	SectionKind string
	Reason      string
}

func (e *LayoutError) Error() string {
	if e.BlockIndex < 0 {
		return fmt.Sprintf("layout failed: %s", e.Reason)
	}
	return fmt.Sprintf("layout failed at block %d (section %d %q): %s", e.BlockIndex, e.Section, e.SectionKind, e.Reason)
}
