package billing

// ByYear partitions ledger entries by the year of their recognition date and
// totals each partition. Years with no entries are absent from the map.
func ByYear(entries []LedgerEntry) map[int]Totals {
	years := make(map[int]Totals)
	for _, e := range entries {
		year := e.Year()
		totals := years[year]
		if e.IsSpend() {
			totals = totals.addSpent(e.Currency, e.Amount)
		} else {
			totals = totals.addRequested(e.Currency, e.Amount)
		}
		years[year] = totals
	}
	return years
}

// PreviousYearsTotal is the carry-forward total for everything recognized
// strictly before Jan 1 of beforeYear. It equals the sum of ByYear buckets
// for every year below beforeYear.
func PreviousYearsTotal(entries []LedgerEntry, beforeYear int) Totals {
	var totals Totals
	for year, yearTotals := range ByYear(entries) {
		if year < beforeYear {
			totals = totals.Add(yearTotals)
		}
	}
	return totals
}
