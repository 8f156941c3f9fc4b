// Package domain holds the core registration model and the typed errors
// shared across the application.
package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Registration is a single training sign-up record. Values are normalized
// at ingestion and never mutated afterwards.
type Registration struct {
	// RegisteredAt is the registration date, without a time component.
	// Never in the future relative to load time.
	RegisteredAt time.Time
	// TrainingName is the cleaned training name, date token stripped.
	TrainingName string
	// TrainingDate is the date extracted from the raw training name, if any.
	TrainingDate *time.Time
	// Revenue is the non-negative registration amount in euros.
	Revenue decimal.Decimal
	// Type is the training category label, e.g. "Green Belt".
	Type string
	// Company is the normalized organization name, legal suffix stripped.
	Company string

	// Optional registrant fields, present in some dataset variants.
	FirstName string
	LastName  string
	Email     string
}

// RegistrationSet is an ordered collection of registrations. Filters return
// a new set; the receiver is never modified, so concurrent readers can share
// a snapshot freely.
type RegistrationSet struct {
	regs []Registration
}

// NewRegistrationSet builds a set from the given registrations, preserving
// their order.
func NewRegistrationSet(regs []Registration) *RegistrationSet {
	owned := make([]Registration, len(regs))
	copy(owned, regs)
	return &RegistrationSet{regs: owned}
}

// Len returns the number of registrations in the set.
func (s *RegistrationSet) Len() int {
	return len(s.regs)
}

// Registrations returns a copy of the underlying records in set order.
func (s *RegistrationSet) Registrations() []Registration {
	out := make([]Registration, len(s.regs))
	copy(out, s.regs)
	return out
}

// FilterByPeriod returns the registrations whose registration date falls
// within [start, end], inclusive on both ends.
func (s *RegistrationSet) FilterByPeriod(start, end time.Time) *RegistrationSet {
	filtered := make([]Registration, 0, len(s.regs))
	for _, r := range s.regs {
		if r.RegisteredAt.Before(start) || r.RegisteredAt.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return &RegistrationSet{regs: filtered}
}

// FilterByType returns the registrations whose type contains the query,
// case-insensitively.
func (s *RegistrationSet) FilterByType(query string) *RegistrationSet {
	q := strings.ToLower(query)
	filtered := make([]Registration, 0, len(s.regs))
	for _, r := range s.regs {
		if strings.Contains(strings.ToLower(r.Type), q) {
			filtered = append(filtered, r)
		}
	}
	return &RegistrationSet{regs: filtered}
}

// FilterByCompany returns the registrations whose company matches the query
// according to the given matcher. Passing nil falls back to plain
// case-insensitive substring matching.
func (s *RegistrationSet) FilterByCompany(query string, matches func(name, query string) bool) *RegistrationSet {
	if matches == nil {
		matches = func(name, q string) bool {
			return strings.Contains(strings.ToLower(name), strings.ToLower(q))
		}
	}
	filtered := make([]Registration, 0, len(s.regs))
	for _, r := range s.regs {
		if matches(r.Company, query) {
			filtered = append(filtered, r)
		}
	}
	return &RegistrationSet{regs: filtered}
}

// TotalRevenue sums the revenue over the whole set.
func (s *RegistrationSet) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.regs {
		total = total.Add(r.Revenue)
	}
	return total
}

// RevenueByType returns revenue totals keyed by training type.
func (s *RegistrationSet) RevenueByType() map[string]decimal.Decimal {
	byType := make(map[string]decimal.Decimal)
	for _, r := range s.regs {
		byType[r.Type] = byType[r.Type].Add(r.Revenue)
	}
	return byType
}

// RevenueByCompany returns revenue totals keyed by company.
func (s *RegistrationSet) RevenueByCompany() map[string]decimal.Decimal {
	byCompany := make(map[string]decimal.Decimal)
	for _, r := range s.regs {
		byCompany[r.Company] = byCompany[r.Company].Add(r.Revenue)
	}
	return byCompany
}

// Companies returns the distinct company names in dataset load order.
// Company detection deliberately scans this order and takes the first
// match, so the order is part of the contract.
func (s *RegistrationSet) Companies() []string {
	seen := make(map[string]bool, len(s.regs))
	out := make([]string, 0, len(s.regs))
	for _, r := range s.regs {
		if r.Company == "" || seen[r.Company] {
			continue
		}
		seen[r.Company] = true
		out = append(out, r.Company)
	}
	return out
}

// SortedByDate returns a new set ordered by registration date, ascending.
// Used for presentation (exports); the set itself stays in load order.
func (s *RegistrationSet) SortedByDate() *RegistrationSet {
	sorted := make([]Registration, len(s.regs))
	copy(sorted, s.regs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RegisteredAt.Before(sorted[j].RegisteredAt)
	})
	return &RegistrationSet{regs: sorted}
}
