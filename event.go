package ggchart

// Buttons is the set of pointer buttons held during an event.
type Buttons uint8

// Pointer buttons.
const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Has reports whether every button in b is held.
func (s Buttons) Has(b Buttons) bool {
	return b != 0 && s&b == b
}

// Modifiers is the set of modifier keys held during an event.
type Modifiers uint8

// Modifier keys.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every key in m is held. The empty set is never held.
func (s Modifiers) Has(m Modifiers) bool {
	return m != 0 && s&m == m
}

// Event is a normalized pointer event from the UI layer.
type Event struct {
	// Position is the pointer position in canvas pixels.
	Position Point
	// Delta is the wheel scroll amount; only the sign of Y is used.
	Delta     Point
	Buttons   Buttons
	Modifiers Modifiers
}

// Axis selects the axis of a scale gesture.
type Axis uint8

const (
	// AxisIndex scales the index window (horizontal handle).
	AxisIndex Axis = iota
	// AxisValue scales the value range (vertical handle).
	AxisValue
)

func (a Axis) String() string {
	if a == AxisValue {
		return "value"
	}
	return "index"
}

// anchor is an optional drag anchor.
type anchor struct {
	at  Point
	set bool
}

// gestureState holds the drag anchors of a Composer. It is a value: each
// event produces a new state that replaces the old one wholesale.
type gestureState struct {
	move  anchor
	scale anchor
}

// moved returns the previous move anchor (or p itself on the first event)
// and the state anchored at p.
func (g gestureState) moved(p Point) (Point, gestureState) {
	prev := p
	if g.move.set {
		prev = g.move.at
	}
	g.move = anchor{at: p, set: true}
	return prev, g
}

// scaled is moved for the scale anchor.
func (g gestureState) scaled(p Point) (Point, gestureState) {
	prev := p
	if g.scale.set {
		prev = g.scale.at
	}
	g.scale = anchor{at: p, set: true}
	return prev, g
}

// left returns the state with the move anchor cleared.
func (g gestureState) left() gestureState {
	g.move = anchor{}
	return g
}
