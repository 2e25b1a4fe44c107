package approvaltime

// Accumulator is the running mean and count behind an average. It keeps the
// mean rather than the sum so that large finite inputs cannot overflow to +Inf.
// Accumulators over disjoint inputs can be merged in any order.
type Accumulator struct {
	Mean  float64
	Count int
}

func (a *Accumulator) Add(hours float64) {
	a.Count++
	a.Mean += (hours - a.Mean) / float64(a.Count)
}

// Merge folds other into a, weighting each mean by its count.
func (a *Accumulator) Merge(other Accumulator) {
	if other.Count == 0 {
		return
	}
	if a.Count == 0 {
		*a = other
		return
	}
	total := a.Count + other.Count
	a.Mean += (other.Mean - a.Mean) * (float64(other.Count) / float64(total))
	a.Count = total
}

// Average returns the mean, or 0 when nothing was added.
func (a Accumulator) Average() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Mean
}
