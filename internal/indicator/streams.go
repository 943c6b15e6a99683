package indicator

// emaStream is an incremental exponential moving average. The first
// value is the simple average of the first period samples, so the EMA
// is undefined until period samples have arrived.
type emaStream struct {
	period int
	n      int
	seed   float64
	value  float64
}

func newEMAStream(period int) *emaStream {
	return &emaStream{period: period}
}

func (e *emaStream) next(x float64) (float64, bool) {
	e.n++
	if e.n < e.period {
		e.seed += x
		return 0, false
	}
	if e.n == e.period {
		e.seed += x
		e.value = e.seed / float64(e.period)
		return e.value, true
	}
	k := 2.0 / float64(e.period+1)
	e.value = (x-e.value)*k + e.value
	return e.value, true
}

// rsiStream computes the Relative Strength Index with Wilder smoothing.
// Fed with close-to-close changes; defined once period changes arrived.
type rsiStream struct {
	period  int
	n       int
	sumGain float64
	sumLoss float64
	avgGain float64
	avgLoss float64
}

func newRSIStream(period int) *rsiStream {
	return &rsiStream{period: period}
}

func (r *rsiStream) next(change float64) (float64, bool) {
	var gain, loss float64
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	r.n++
	switch {
	case r.n < r.period:
		r.sumGain += gain
		r.sumLoss += loss
		return 0, false
	case r.n == r.period:
		r.sumGain += gain
		r.sumLoss += loss
		r.avgGain = r.sumGain / float64(r.period)
		r.avgLoss = r.sumLoss / float64(r.period)
	default:
		p := float64(r.period)
		r.avgGain = (r.avgGain*(p-1) + gain) / p
		r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	}

	// No losses in the whole window means maximal strength
	if r.avgLoss == 0 {
		return 100, true
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs), true
}

// atrStream computes the Average True Range with Wilder smoothing,
// seeded by the simple average of the first period true ranges.
type atrStream struct {
	period int
	n      int
	sum    float64
	value  float64
}

func newATRStream(period int) *atrStream {
	return &atrStream{period: period}
}

func (a *atrStream) next(tr float64) (float64, bool) {
	a.n++
	if a.n < a.period {
		a.sum += tr
		return 0, false
	}
	if a.n == a.period {
		a.sum += tr
		a.value = a.sum / float64(a.period)
		return a.value, true
	}
	p := float64(a.period)
	a.value = (a.value*(p-1) + tr) / p
	return a.value, true
}
