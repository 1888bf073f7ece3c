package receipt

// SplitConfig names the two household members a summary is computed for.
// Shared items split exactly in half; weighted splits and households larger
// than two are not modeled.
type SplitConfig struct {
	PersonA string
	PersonB string
}

// PersonTotal is one person's share of a categorized receipt
type PersonTotal struct {
	PersonID string  `json:"person_id"`
	Total    float64 `json:"total"`
}

// Totals is the per-person summary of a fully categorized receipt. It is
// derived, never persisted: recompute it from the categorized items whenever
// needed. Display rounding to two decimals happens at presentation time only.
type Totals struct {
	PersonA PersonTotal `json:"person_a"`
	PersonB PersonTotal `json:"person_b"`
}

// Sum returns the combined total, which always equals the sum of all
// categorized item prices: shared costs are fully distributed
func (t Totals) Sum() float64 {
	return t.PersonA.Total + t.PersonB.Total
}

// ComputeTotals reduces categorized items to per-person owed amounts. Me goes
// to person A, Roommate to person B, and Shared contributes half its price to
// each. Zero items yields zero totals; that is a valid result, not an error.
func ComputeTotals(items []CategorizedItem, cfg SplitConfig) Totals {
	var me, roommate, shared float64
	for _, item := range items {
		switch item.Category {
		case CategoryMe:
			me += item.Price
		case CategoryRoommate:
			roommate += item.Price
		case CategoryShared:
			shared += item.Price
		}
	}

	sharedPerPerson := shared / 2
	return Totals{
		PersonA: PersonTotal{PersonID: cfg.PersonA, Total: me + sharedPerPerson},
		PersonB: PersonTotal{PersonID: cfg.PersonB, Total: roommate + sharedPerPerson},
	}
}
