package logic

import (
	"math"
	"sort"

	"github.com/cornerd/corners-api/internal/models"
)

// recencyWeight is the extra weight the newest game carries over the
// oldest in the weighted average.
const recencyWeight = 0.6

// weightedAverage computes a recency-weighted mean over a series ordered
// oldest to newest: the i-th of n games weighs 1 + (i/n)*recencyWeight.
func weightedAverage(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	n := float64(len(values))
	var sum, weightSum float64
	for i, v := range values {
		w := 1 + (float64(i)/n)*recencyWeight
		sum += float64(v) * w
		weightSum += w
	}
	return sum / weightSum
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStd is the population (not sample) standard deviation.
func populationStd(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := float64(v) - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

func minMax(values []int) (int, int) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// consistencyScore maps the coefficient of variation onto 0-100 where 100
// means the series never varies. Under 3 points the score defaults to 50;
// a zero mean scores 0.
func consistencyScore(values []int) float64 {
	if len(values) < 3 {
		return 50
	}
	m := mean(values)
	if m == 0 {
		return 0
	}
	cv := populationStd(values) / m
	return clamp(100-cv*100, 0, 100)
}

// trendLabel classifies a series by its least-squares slope against the
// game index. A statistically weak fit (p > 0.1) or a flat slope reads as
// stable; under 5 points there is nothing to fit.
func trendLabel(values []int) string {
	if len(values) < 5 {
		return models.TrendInsufficientData
	}
	slope, p := linearTrend(values)
	if p > 0.1 {
		return models.TrendStable
	}
	switch {
	case slope > 0.1:
		return models.TrendImproving
	case slope < -0.1:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// linearTrend fits value = a + b*index by ordinary least squares and
// returns the slope with its two-sided p-value.
func linearTrend(values []int) (slope, pValue float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x, y := float64(i), float64(v)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	sxx := sumXX - sumX*sumX/n
	if sxx == 0 {
		return 0, 1
	}
	slope = (sumXY - sumX*sumY/n) / sxx
	intercept := (sumY - slope*sumX) / n

	var sse float64
	for i, v := range values {
		resid := float64(v) - (intercept + slope*float64(i))
		sse += resid * resid
	}
	df := n - 2
	if df <= 0 {
		return slope, 1
	}
	if sse == 0 {
		// Perfect fit: any nonzero slope is maximally significant.
		if slope == 0 {
			return 0, 1
		}
		return slope, 0
	}
	se := math.Sqrt(sse / df / sxx)
	t := slope / se
	return slope, studentTwoTailed(t, df)
}

// studentTwoTailed is the two-sided p-value of a t statistic with df
// degrees of freedom: I_x(df/2, 1/2) at x = df/(df+t^2).
func studentTwoTailed(t, df float64) float64 {
	return regIncBeta(df/2, 0.5, df/(df+t*t))
}

// regIncBeta is the regularized incomplete beta function I_x(a, b),
// evaluated with the continued-fraction expansion.
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lnBeta := lgamma(a+b) - lgamma(a) - lgamma(b) + a*math.Log(x) + b*math.Log(1-x)
	front := math.Exp(lnBeta)
	if x < (a+1)/(a+b+2) {
		return front * betaCF(a, b, x) / a
	}
	return 1 - front*betaCF(b, a, 1-x)/b
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func betaCF(a, b, x float64) float64 {
	const (
		maxIter = 200
		eps     = 3e-14
		fpMin   = 1e-300
	)
	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < fpMin {
		d = fpMin
	}
	d = 1 / d
	h := d
	for m := 1; m <= maxIter; m++ {
		m2 := float64(2 * m)
		aa := float64(m) * (b - float64(m)) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpMin {
			d = fpMin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpMin {
			c = fpMin
		}
		d = 1 / d
		h *= d * c
		aa = -(a + float64(m)) * (qab + float64(m)) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < fpMin {
			d = fpMin
		}
		c = 1 + aa/c
		if math.Abs(c) < fpMin {
			c = fpMin
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < eps {
			break
		}
	}
	return h
}

// reliabilityThreshold finds the highest half-integer corner line the team
// still clears in at least target (e.g. 0.90) of its games. A line whose
// hit rate equals the target exactly still counts as cleared. Under 5
// games the floor line 0.5 is returned; if every tested line clears, the
// (1-target) percentile of the sorted series is used instead.
func reliabilityThreshold(values []int, target float64) float64 {
	if len(values) < 5 {
		return 0.5
	}
	for line := 0.5; line < 15; line++ {
		over := 0
		for _, v := range values {
			if float64(v) >= line {
				over++
			}
		}
		if float64(over)/float64(len(values)) >= target {
			continue
		}
		return math.Max(0.5, line-1)
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	return float64(sorted[int(float64(len(sorted))*(1-target))])
}
