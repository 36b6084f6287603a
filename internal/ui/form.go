package ui

// choice is a categorical question answered by cycling through options.
type choice struct {
	label   string
	options []string
	index   int
}

func newChoice(label string, options []string) choice {
	return choice{label: label, options: options}
}

func (c *choice) next() {
	if len(c.options) > 0 {
		c.index = (c.index + 1) % len(c.options)
	}
}

func (c *choice) prev() {
	if len(c.options) > 0 {
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
	}
}

func (c choice) value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index]
}

type focusKind int

const (
	focusComment focusKind = iota
	focusSlot
	focusSeen
	focusQuestion
	focusNext
)

// focusTarget is one stop of the tab ring.
type focusTarget struct {
	kind  focusKind
	index int
}

// focusRing lists the focusable controls in tab order: comment boxes, filled
// display slots, the questionnaire, then the Next button.
func focusRing(comments, slots, questions int) []focusTarget {
	ring := make([]focusTarget, 0, comments+slots+questions+2)
	for i := range comments {
		ring = append(ring, focusTarget{kind: focusComment, index: i})
	}
	for i := range slots {
		ring = append(ring, focusTarget{kind: focusSlot, index: i})
	}
	ring = append(ring, focusTarget{kind: focusSeen})
	for i := range questions {
		ring = append(ring, focusTarget{kind: focusQuestion, index: i})
	}
	return append(ring, focusTarget{kind: focusNext})
}
