package pipeline

import "sync"

// Control flag names consumed by the downstream control loop.
const (
	ControlLeft  = "LEFT"
	ControlRight = "RIGHT"
	ControlShoot = "SHOOT"
)

// MapLabel folds a classification label into the control flags. A movement
// label raises exactly one of LEFT/RIGHT; "noise" and anything unrecognized
// lower both. SHOOT is reserved for a future label and is never touched
// here.
func MapLabel(label string, flags map[string]int) {
	flags[ControlLeft] = 0
	flags[ControlRight] = 0
	switch label {
	case "left":
		flags[ControlLeft] = 1
	case "right":
		flags[ControlRight] = 1
	}
}

// ControlState is the discrete control signal set shared between the
// pipeline (writer) and the polling consumer. The consumer is expected to
// clear flags after acting on them, either via Consume or Set.
type ControlState struct {
	mu    sync.Mutex
	flags map[string]int
}

// NewControlState returns a zeroed control state.
func NewControlState() *ControlState {
	return &ControlState{
		flags: map[string]int{
			ControlLeft:  0,
			ControlRight: 0,
			ControlShoot: 0,
		},
	}
}

// Apply maps a label onto the flags.
func (c *ControlState) Apply(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	MapLabel(label, c.flags)
}

// Set overwrites a single flag. Unknown names are ignored.
func (c *ControlState) Set(name string, value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.flags[name]; ok {
		c.flags[name] = value
	}
}

// Snapshot returns a copy of the current flags.
func (c *ControlState) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Consume returns a copy of the current flags and clears them, implementing
// the consumer side of the contract in one step.
func (c *ControlState) Consume() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.copyLocked()
	for name := range c.flags {
		c.flags[name] = 0
	}
	return out
}

func (c *ControlState) copyLocked() map[string]int {
	out := make(map[string]int, len(c.flags))
	for name, value := range c.flags {
		out[name] = value
	}
	return out
}
