package models

// ComputeItems turns diff view rows into punchlist line items. A row
// becomes an item only when something is actually wrong with it: units
// missing or units damaged. Rows that reconcile cleanly are dropped.
// Input order is preserved; persisted order is assigned by the store on
// insert. Pure function, no I/O.
func ComputeItems(diffRows []ManifestLine) []PunchlistItem {
	items := make([]PunchlistItem, 0, len(diffRows))
	for _, row := range diffRows {
		missing := row.ExpectedQty - row.TotalReceived
		if missing < 0 {
			// Over-delivery is not a discrepancy this report tracks.
			missing = 0
		}
		if missing == 0 && row.TotalDamaged == 0 {
			continue
		}
		items = append(items, PunchlistItem{
			Manufacturer: row.Manufacturer,
			Model:        row.Model,
			Room:         row.Room,
			ExpectedQty:  row.ExpectedQty,
			ReceivedQty:  row.TotalReceived,
			MissingQty:   missing,
			DamagedQty:   row.TotalDamaged,
			Issue:        issueFor(missing, row.TotalDamaged),
		})
	}
	return items
}

func issueFor(missing int, damaged int) string {
	switch {
	case missing > 0 && damaged > 0:
		return "Missing / Damaged"
	case missing > 0:
		return "Missing"
	default:
		return "Damaged"
	}
}
