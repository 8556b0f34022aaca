package ui

// Base holds the focus and size state shared by the bordered list panels
// (station lists and category lists). Embed it in a panel model.
type Base struct {
	width, height int
	focused       bool
}

func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused reports whether the panel takes keys and draws its cursor.
func (b Base) IsFocused() bool {
	return b.focused
}

func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b Base) Size() (width, height int) {
	return b.width, b.height
}

// Rows is the number of list rows that fit below the panel header.
func (b Base) Rows() int {
	return max(b.height-PanelOverhead, 0)
}
