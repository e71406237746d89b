package queue

import "github.com/xeroq/api/internal/model"

// Assign picks a printer for a new job. The rules are evaluated in order,
// first match wins, and the result is fully determined by the snapshot:
//
//  1. Both printers idle and empty -> resource A.
//  2. A busy, B completely idle -> resource B (warm up the second printer
//     before page-based balancing kicks in).
//  3. Otherwise the printer with strictly fewer queued pages.
//  4. Equal page totals -> resource A.
func Assign(snap LoadSnapshot) model.Resource {
	a, b := snap.A, snap.B

	if a.ActiveJobs == 0 && a.PagesQueued == 0 && b.ActiveJobs == 0 && b.PagesQueued == 0 {
		return model.ResourceA
	}
	if a.ActiveJobs >= 1 && b.ActiveJobs == 0 && b.PagesQueued == 0 {
		return model.ResourceB
	}
	if b.PagesQueued < a.PagesQueued {
		return model.ResourceB
	}
	return model.ResourceA
}
