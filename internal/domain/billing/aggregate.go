package billing

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/property-billing-ledger/internal/domain/property"
	"github.com/property-billing-ledger/internal/domain/shared"
)

// ErrNegativeAmount means a payment amount or an explicit charge cost is
// negative. Amounts are validated at the aggregation boundary because a
// negative value indicates a data-layer bug, not an expected runtime state.
var ErrNegativeAmount = errors.New("negative amount")

// Filter narrows the record collections before aggregation. The date/year
// range applies to each record's recognition date: Payment.Date,
// ServiceRequest.DateCreated and UtilityReading.EndDate.
type Filter struct {
	VillageID *int64
	UserType  *shared.Party
	Year      *int
	DateFrom  *time.Time
	DateTo    *time.Time
}

func (f Filter) dateMatches(t time.Time) bool {
	if f.Year != nil && t.Year() != *f.Year {
		return false
	}
	if f.DateFrom != nil && t.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.After(*f.DateTo) {
		return false
	}
	return true
}

func (f Filter) partyMatches(p shared.Party) bool {
	return f.UserType == nil || p == *f.UserType
}

// Snapshot is one consistent set of inputs for a single aggregation call.
// All collections must be fetched for the same point in time; mixing fetch
// times can silently double-count or omit entries.
type Snapshot struct {
	Apartments       []property.Apartment
	VillagesByID     map[int64]property.Village
	ServiceTypesByID map[int64]property.ServiceType
	Bookings         []property.Booking
	Payments         []Payment
	ServiceRequests  []ServiceRequest
	UtilityReadings  []UtilityReading
}

// ApartmentTotals is the per-apartment ledger roll-up, with per-party
// sub-totals kept addressable for renter attribution.
type ApartmentTotals struct {
	ApartmentID int64                   `json:"apartment_id"`
	Totals      Totals                  `json:"totals"`
	ByParty     map[shared.Party]Totals `json:"by_party"`
}

// WarningKind classifies aggregation warnings
type WarningKind string

const (
	// WarningPricingUnavailable - a charge had no resolvable price; the line
	// item was excluded from totals rather than silently counted as zero
	WarningPricingUnavailable WarningKind = "pricing_unavailable"
	// WarningMissingVillage - the apartment references a village that is not in
	// the snapshot, so utility bills could not be priced. Payments for the
	// apartment are still counted.
	WarningMissingVillage WarningKind = "missing_village"
)

// Warning flags a record that was excluded from totals, so callers can render
// "no pricing" instead of a misleading zero.
type Warning struct {
	Kind        WarningKind       `json:"kind"`
	Source      shared.SourceKind `json:"source_kind"`
	RecordID    int64             `json:"record_id"`
	ApartmentID int64             `json:"apartment_id"`
	Detail      string            `json:"detail,omitempty"`
}

// PendingReading flags an incomplete utility reading pair. Pending is the
// expected steady state between meter visits, reported separately from
// warnings.
type PendingReading struct {
	ReadingID   int64              `json:"reading_id"`
	ApartmentID int64              `json:"apartment_id"`
	Kind        shared.UtilityKind `json:"kind"`
}

// Report is the output of one aggregation call
type Report struct {
	Apartments map[int64]*ApartmentTotals `json:"apartments"`
	Totals     Totals                     `json:"totals"`
	Entries    []LedgerEntry              `json:"entries"`
	Warnings   []Warning                  `json:"warnings"`
	Pending    []PendingReading           `json:"pending"`
}

// Aggregate walks payments, service requests and utility readings for the
// filtered apartment set and produces per-apartment, per-currency totals plus
// the derived ledger entries. The result is independent of input order:
// accumulation is keyed and the entry list is sorted deterministically.
func Aggregate(snap Snapshot, filter Filter) (*Report, error) {
	report := &Report{
		Apartments: make(map[int64]*ApartmentTotals),
	}

	apartments := make(map[int64]property.Apartment)
	for _, apt := range snap.Apartments {
		if filter.VillageID != nil && apt.VillageID != *filter.VillageID {
			continue
		}
		apartments[apt.ID] = apt
		report.Apartments[apt.ID] = &ApartmentTotals{
			ApartmentID: apt.ID,
			ByParty:     make(map[shared.Party]Totals),
		}
	}

	for _, p := range snap.Payments {
		if _, ok := apartments[p.ApartmentID]; !ok {
			continue
		}
		if !filter.partyMatches(p.UserType) || !filter.dateMatches(p.Date) {
			continue
		}
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("payment %d: %w", p.ID, ErrNegativeAmount)
		}
		if !p.Currency.Valid() {
			return nil, fmt.Errorf("payment %d: %w: %q", p.ID, shared.ErrInvalidCurrency, p.Currency)
		}

		report.addEntry(LedgerEntry{
			ApartmentID: p.ApartmentID,
			BookingID:   p.BookingID,
			Source:      shared.SourcePayment,
			SourceID:    p.ID,
			Party:       p.UserType,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Date:        p.Date,
			Description: "payment",
		})
	}

	for _, sr := range snap.ServiceRequests {
		apt, ok := apartments[sr.ApartmentID]
		if !ok {
			continue
		}
		if !filter.partyMatches(sr.WhoPays) || !filter.dateMatches(sr.DateCreated) {
			continue
		}

		entry := LedgerEntry{
			ApartmentID: sr.ApartmentID,
			BookingID:   sr.BookingID,
			Source:      shared.SourceServiceRequest,
			SourceID:    sr.ID,
			Party:       sr.WhoPays,
			Date:        sr.DateCreated,
			Description: "service charge",
		}

		if sr.Cost != nil && sr.Currency != nil {
			if sr.Cost.IsNegative() {
				return nil, fmt.Errorf("service request %d: %w", sr.ID, ErrNegativeAmount)
			}
			entry.Amount = *sr.Cost
			entry.Currency = *sr.Currency
		} else {
			st, ok := snap.ServiceTypesByID[sr.TypeID]
			if !ok {
				report.Warnings = append(report.Warnings, Warning{
					Kind:        WarningPricingUnavailable,
					Source:      shared.SourceServiceRequest,
					RecordID:    sr.ID,
					ApartmentID: sr.ApartmentID,
					Detail:      fmt.Sprintf("unknown service type %d", sr.TypeID),
				})
				continue
			}

			quote, err := ResolveServicePrice(st, apt.VillageID, nil)
			if err != nil {
				report.Warnings = append(report.Warnings, Warning{
					Kind:        WarningPricingUnavailable,
					Source:      shared.SourceServiceRequest,
					RecordID:    sr.ID,
					ApartmentID: sr.ApartmentID,
					Detail:      st.Name,
				})
				continue
			}
			if quote.Cost.IsNegative() {
				return nil, fmt.Errorf("service request %d: %w", sr.ID, ErrNegativeAmount)
			}
			entry.Amount = quote.Cost
			entry.Currency = quote.Currency
			entry.FallbackPricing = quote.IsFallback()
			entry.Description = st.Name
		}

		report.addEntry(entry)
	}

	for _, r := range snap.UtilityReadings {
		apt, ok := apartments[r.ApartmentID]
		if !ok {
			continue
		}
		if !filter.partyMatches(r.WhoPays) || !filter.dateMatches(r.EndDate) {
			continue
		}

		village, villageKnown := snap.VillagesByID[apt.VillageID]
		if !villageKnown {
			for _, kind := range []shared.UtilityKind{shared.UtilityWater, shared.UtilityElectricity} {
				if !r.HasValues(kind) {
					continue
				}
				report.Warnings = append(report.Warnings, Warning{
					Kind:        WarningMissingVillage,
					Source:      utilitySource(kind),
					RecordID:    r.ID,
					ApartmentID: r.ApartmentID,
					Detail:      fmt.Sprintf("village %d not found", apt.VillageID),
				})
			}
			continue
		}

		for _, kind := range []shared.UtilityKind{shared.UtilityWater, shared.UtilityElectricity} {
			start, end := r.Pair(kind)
			bill, err := CalculateUtilityBill(kind, start, end, village)
			if err != nil {
				if errors.Is(err, ErrIncompleteReading) {
					if r.HasValues(kind) {
						report.Pending = append(report.Pending, PendingReading{
							ReadingID:   r.ID,
							ApartmentID: r.ApartmentID,
							Kind:        kind,
						})
					}
					continue
				}
				return nil, fmt.Errorf("utility reading %d (%s): %w", r.ID, kind, err)
			}

			consumption := bill.Consumption
			report.addEntry(LedgerEntry{
				ApartmentID: r.ApartmentID,
				BookingID:   r.BookingID,
				Source:      utilitySource(kind),
				SourceID:    r.ID,
				Party:       r.WhoPays,
				Amount:      bill.Cost,
				Currency:    bill.Currency,
				Consumption: &consumption,
				Date:        r.EndDate,
				Description: string(kind) + " consumption",
			})
		}
	}

	sortEntries(report.Entries)

	for _, totals := range report.Apartments {
		report.Totals = report.Totals.Add(totals.Totals)
	}

	return report, nil
}

// addEntry records a derived line item and folds it into the apartment's
// combined and per-party totals.
func (r *Report) addEntry(e LedgerEntry) {
	r.Entries = append(r.Entries, e)

	apt := r.Apartments[e.ApartmentID]
	party := apt.ByParty[e.Party]
	if e.IsSpend() {
		apt.Totals = apt.Totals.addSpent(e.Currency, e.Amount)
		party = party.addSpent(e.Currency, e.Amount)
	} else {
		apt.Totals = apt.Totals.addRequested(e.Currency, e.Amount)
		party = party.addRequested(e.Currency, e.Amount)
	}
	apt.ByParty[e.Party] = party
}

func utilitySource(kind shared.UtilityKind) shared.SourceKind {
	if kind == shared.UtilityElectricity {
		return shared.SourceUtilityElectricity
	}
	return shared.SourceUtilityWater
}

// sortEntries orders entries by recognition date, then source kind, then
// record id, then currency, so equal inputs always produce identical output
// regardless of input ordering.
func sortEntries(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		return a.Currency < b.Currency
	})
}
