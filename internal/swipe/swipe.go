// Package swipe tracks horizontal drag gestures on list items and turns them
// into open/reset intents for the delete affordance.
package swipe

// Defaults in pixels.
const (
	DefaultMaxDistance = 80
	DefaultThreshold   = 40
)

// Intent is what a finished gesture asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentOpen
	IntentReset
)

func (i Intent) String() string {
	switch i {
	case IntentOpen:
		return "open"
	case IntentReset:
		return "reset"
	default:
		return "none"
	}
}

// Result is reported when a gesture ends.
type Result struct {
	ID     string
	Intent Intent
	Offset int
}

// Detector tracks a single active drag. Only leftward drags produce progress.
type Detector struct {
	maxDistance int
	threshold   int

	id       string
	startX   int
	currentX int
	active   bool
}

// New returns a Detector. Non-positive values fall back to the defaults.
func New(maxDistance, threshold int) *Detector {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{maxDistance: maxDistance, threshold: threshold}
}

// MaxDistance is the fully revealed offset.
func (d *Detector) MaxDistance() int { return d.maxDistance }

// Start begins tracking a drag on item id at horizontal position x. A drag
// already in progress is discarded.
func (d *Detector) Start(id string, x int) {
	d.id = id
	d.startX = x
	d.currentX = x
	d.active = true
}

// Move records the pointer at x and returns the current offset.
func (d *Detector) Move(x int) int {
	if !d.active {
		return 0
	}
	d.currentX = x
	return d.Offset()
}

// Offset is the live reveal distance, clamped to [0, MaxDistance].
func (d *Detector) Offset() int {
	if !d.active {
		return 0
	}
	diff := d.startX - d.currentX
	if diff <= 0 {
		return 0
	}
	return min(diff, d.maxDistance)
}

// End finishes the drag. Past the threshold the item opens, otherwise it
// snaps back.
func (d *Detector) End() Result {
	if !d.active {
		return Result{Intent: IntentNone}
	}
	res := Result{ID: d.id, Intent: IntentReset}
	if d.startX-d.currentX > d.threshold {
		res.Intent = IntentOpen
		res.Offset = d.maxDistance
	}
	d.Cancel()
	return res
}

// Cancel drops the active drag without reporting.
func (d *Detector) Cancel() {
	d.id = ""
	d.active = false
	d.startX = 0
	d.currentX = 0
}

// Active reports whether a drag is in progress.
func (d *Detector) Active() bool { return d.active }

// ID is the item being dragged, or "".
func (d *Detector) ID() string { return d.id }
