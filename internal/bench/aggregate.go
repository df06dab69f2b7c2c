// internal/bench/aggregate.go
// Per-name duration totals, iterated in first-seen order

package bench

// TotalKey names the record whose sum is the percentage denominator.
const TotalKey = "total"

// Aggregate maps names to accumulated seconds. Missing names start at 0.
// It is not safe for concurrent use.
type Aggregate struct {
	order []string
	sums  map[string]float64
}

func NewAggregate() *Aggregate {
	return &Aggregate{sums: map[string]float64{}}
}

// Add accumulates seconds under name, registering name on first sight.
func (a *Aggregate) Add(name string, seconds float64) {
	if _, ok := a.sums[name]; !ok {
		a.order = append(a.order, name)
	}
	a.sums[name] += seconds
}

// AddRecord is Add for a parsed Record.
func (a *Aggregate) AddRecord(r Record) { a.Add(r.Name, r.Seconds) }

func (a *Aggregate) Get(name string) (float64, bool) {
	v, ok := a.sums[name]
	return v, ok
}

func (a *Aggregate) Len() int { return len(a.order) }

// Names returns the keys in the order they were first added.
func (a *Aggregate) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Total is the value under TotalKey, or 0 when no such record was added.
func (a *Aggregate) Total() float64 { return a.sums[TotalKey] }
