package appointment

import "sort"

// PageSize is the fixed page length of every appointment listing.
const PageSize = 5

// Mode selects which slice of the schedule a listing shows. Vets work a
// pending queue and a history of everything else; clients see their pending
// appointments on the dashboard and a history of closed ones.
type Mode int

const (
	ModeVetPending Mode = iota
	ModeVetHistory
	ModeClientPending
	ModeClientHistory
)

func (m Mode) matches(a *Appointment) bool {
	switch m {
	case ModeVetPending, ModeClientPending:
		return a.EffectiveStatus() == StatusPending
	case ModeVetHistory:
		return a.EffectiveStatus() != StatusPending
	case ModeClientHistory:
		s := a.EffectiveStatus()
		return s == StatusCompleted || s == StatusCancelled
	}
	return false
}

// Filter is the secondary, user-driven narrowing applied on top of a Mode.
// Both criteria are optional and combine with AND. Mascota matches the pet
// display name exactly.
type Filter struct {
	Mascota string
	Estado  *Status
}

func (f Filter) matches(a *Appointment) bool {
	if f.Mascota != "" && a.Mascota != f.Mascota {
		return false
	}
	if f.Estado != nil {
		want := *f.Estado
		// The legacy alias filters like the status it stands for.
		if want == StatusLegacyConfirmed {
			want = StatusPending
		}
		if a.EffectiveStatus() != want {
			return false
		}
	}
	return true
}

// View is an immutable listing state: a role-filtered snapshot plus the
// current secondary filter and page. Deriving a new state returns a new
// value; the snapshot slice is shared and must not be mutated.
type View struct {
	snapshot []*Appointment
	filter   Filter
	page     int
}

// NewView builds a view over the given appointments, keeping only those the
// mode admits. Page starts at 1.
func NewView(all []*Appointment, mode Mode) View {
	kept := make([]*Appointment, 0, len(all))
	for _, a := range all {
		if mode.matches(a) {
			kept = append(kept, a)
		}
	}
	return View{snapshot: kept, page: 1}
}

// WithFilter returns the view narrowed by f. Changing the filter always
// resets to page 1 so the user never lands beyond the shrunken result.
func (v View) WithFilter(f Filter) View {
	v.filter = f
	v.page = 1
	return v
}

// WithPage returns the view on page p, clamped to the valid range.
func (v View) WithPage(p int) View {
	v.page = clampPage(p, v.TotalPages())
	return v
}

func clampPage(p, total int) int {
	if p < 1 {
		return 1
	}
	if p > total {
		return total
	}
	return p
}

func (v View) filtered() []*Appointment {
	out := make([]*Appointment, 0, len(v.snapshot))
	for _, a := range v.snapshot {
		if v.filter.matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// Page returns the current page number, already clamped against the
// filtered result size.
func (v View) Page() int {
	return clampPage(v.page, v.TotalPages())
}

// TotalPages is ceil(n/PageSize), never below 1 so an empty result still has
// a well-defined page.
func (v View) TotalPages() int {
	n := len(v.filtered())
	pages := (n + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Items returns the appointments visible on the current page.
func (v View) Items() []*Appointment {
	rows := v.filtered()
	page := clampPage(v.page, v.TotalPages())
	start := (page - 1) * PageSize
	if start >= len(rows) {
		return []*Appointment{}
	}
	end := start + PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Total returns the filtered result count.
func (v View) Total() int {
	return len(v.filtered())
}

// UniquePets lists the distinct pet names in the role-filtered snapshot,
// sorted. The secondary filter is deliberately ignored: the dropdown must
// keep offering pets that the current filter hides.
func (v View) UniquePets() []string {
	seen := make(map[string]struct{}, len(v.snapshot))
	names := make([]string, 0, len(v.snapshot))
	for _, a := range v.snapshot {
		if a.Mascota == "" {
			continue
		}
		if _, ok := seen[a.Mascota]; ok {
			continue
		}
		seen[a.Mascota] = struct{}{}
		names = append(names, a.Mascota)
	}
	sort.Strings(names)
	return names
}
