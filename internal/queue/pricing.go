package queue

import (
	"fmt"

	"github.com/xeroq/api/internal/model"
)

// Pricing holds the per-page rates and the urgent surcharge, in rupees.
type Pricing struct {
	MonochromePerPage int
	ColorPerPage      int
	UrgentSurcharge   int
}

// DefaultPricing matches the posted rates at the print desk.
var DefaultPricing = Pricing{
	MonochromePerPage: 2,
	ColorPerPage:      5,
	UrgentSurcharge:   5,
}

// Quote is an itemized price for a job.
type Quote struct {
	BaseAmount  int
	Surcharge   int
	TotalAmount int
	Breakdown   []string
}

// Price computes the amount due for a job. Color is priced per page; urgent
// processing adds a flat surcharge.
func (p Pricing) Price(pageCount, copies int, color model.ColorMode, urgency model.Urgency) Quote {
	perPage := p.MonochromePerPage
	if color == model.ColorModeColor {
		perPage = p.ColorPerPage
	}

	base := pageCount * copies * perPage
	q := Quote{
		BaseAmount:  base,
		TotalAmount: base,
		Breakdown: []string{
			fmt.Sprintf("%d pages x %d copies x ₹%d = ₹%d", pageCount, copies, perPage, base),
		},
	}

	if urgency == model.UrgencyUrgent {
		q.Surcharge = p.UrgentSurcharge
		q.TotalAmount += p.UrgentSurcharge
		q.Breakdown = append(q.Breakdown, fmt.Sprintf("Urgent processing fee: ₹%d", p.UrgentSurcharge))
	}

	return q
}
