package model

// Job status
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPrinting  Status = "printing"
	StatusPrinted   Status = "printed"
	StatusCollected Status = "collected"
)

// Terminal reports whether a job in this status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusCollected
}

// Active reports whether a job in this status counts toward printer load
// and the active queue.
func (s Status) Active() bool {
	return s == StatusWaiting || s == StatusPrinting
}

// Print resources — exactly two logical printers.
type Resource string

const (
	ResourceA Resource = "resourceA"
	ResourceB Resource = "resourceB"
)

// Urgency levels
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyUrgent Urgency = "urgent"
)

// Color modes
type ColorMode string

const (
	ColorModeMonochrome ColorMode = "monochrome"
	ColorModeColor      ColorMode = "color"
)

// Priority tiers
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// Rank maps a tier to its sort weight (High first).
func (t Tier) Rank() int {
	switch t {
	case TierHigh:
		return 0
	case TierMedium:
		return 1
	default:
		return 2
	}
}

// PickupSlot is one of the fixed pickup time windows.
type PickupSlot struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Window string `json:"window"`
}

var PickupSlots = []PickupSlot{
	{ID: "1", Label: "Morning Break", Window: "10:00 AM - 10:30 AM"},
	{ID: "2", Label: "Lunch Break", Window: "12:30 PM - 1:30 PM"},
	{ID: "4", Label: "After Classes", Window: "3:30 PM - 8:00 PM"},
}

// ValidPickupSlot reports whether id names one of the fixed slots.
func ValidPickupSlot(id string) bool {
	for _, s := range PickupSlots {
		if s.ID == id {
			return true
		}
	}
	return false
}
