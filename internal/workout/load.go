package workout

// Load is the training load carried by a record. It is either an Aggregate
// (uniform sets) or DetailedSets (per-set variation); callers use the
// accessors and never inspect which one they hold.
type Load interface {
	// Volume is the total weight moved: sum of weight*reps over all sets.
	Volume() float64
	// AvgWeight is the mean set weight.
	AvgWeight() float64
	// AvgReps is the mean reps per set.
	AvgReps() float64
	MaxWeight() float64
	MinWeight() float64
	SetCount() int
	TotalReps() int
	// Expand lists the load set by set.
	Expand() []SetDetail
}

// Aggregate is a uniform load: Sets sets of Reps reps at Weight.
type Aggregate struct {
	Weight float64
	Reps   int
	Sets   int
}

func (a Aggregate) Volume() float64    { return a.Weight * float64(a.Reps) * float64(a.Sets) }
func (a Aggregate) AvgWeight() float64 { return a.Weight }
func (a Aggregate) AvgReps() float64   { return float64(a.Reps) }
func (a Aggregate) MaxWeight() float64 { return a.Weight }
func (a Aggregate) MinWeight() float64 { return a.Weight }
func (a Aggregate) SetCount() int      { return a.Sets }
func (a Aggregate) TotalReps() int     { return a.Reps * a.Sets }

func (a Aggregate) Expand() []SetDetail {
	if a.Sets <= 0 {
		return nil
	}
	sets := make([]SetDetail, a.Sets)
	for i := range sets {
		sets[i] = SetDetail{Weight: a.Weight, Reps: a.Reps}
	}
	return sets
}

// DetailedSets is a load recorded set by set.
type DetailedSets []SetDetail

func (d DetailedSets) Volume() float64 {
	var v float64
	for _, s := range d {
		v += s.Weight * float64(s.Reps)
	}
	return v
}

func (d DetailedSets) AvgWeight() float64 {
	if len(d) == 0 {
		return 0
	}
	var sum float64
	for _, s := range d {
		sum += s.Weight
	}
	return sum / float64(len(d))
}

func (d DetailedSets) AvgReps() float64 {
	if len(d) == 0 {
		return 0
	}
	return float64(d.TotalReps()) / float64(len(d))
}

func (d DetailedSets) MaxWeight() float64 {
	var m float64
	for _, s := range d {
		if s.Weight > m {
			m = s.Weight
		}
	}
	return m
}

func (d DetailedSets) MinWeight() float64 {
	if len(d) == 0 {
		return 0
	}
	m := d[0].Weight
	for _, s := range d[1:] {
		if s.Weight < m {
			m = s.Weight
		}
	}
	return m
}

func (d DetailedSets) SetCount() int { return len(d) }

func (d DetailedSets) TotalReps() int {
	total := 0
	for _, s := range d {
		total += s.Reps
	}
	return total
}

func (d DetailedSets) Expand() []SetDetail {
	out := make([]SetDetail, len(d))
	copy(out, d)
	return out
}
