package logic

// Strength classes used by the goals weighting matrix.
const (
	strengthVeryStrong = "very_strong"
	strengthStrong     = "strong"
	strengthAverage    = "average"
	strengthWeak       = "weak"
	strengthVeryWeak   = "very_weak"
)

// weightPair is (attack weight, defense weight); the pair always sums to 1.
type weightPair struct {
	attack  float64
	defense float64
}

// weightMatrix maps [attack strength][defense strength] to the blend
// weights for a scoring probability. Extreme mismatches push the weight
// toward the dominant side.
var weightMatrix = map[string]map[string]weightPair{
	strengthVeryStrong: {
		strengthVeryStrong: {0.45, 0.55},
		strengthStrong:     {0.50, 0.50},
		strengthAverage:    {0.65, 0.35},
		strengthWeak:       {0.75, 0.25},
		strengthVeryWeak:   {0.80, 0.20},
	},
	strengthStrong: {
		strengthVeryStrong: {0.35, 0.65},
		strengthStrong:     {0.50, 0.50},
		strengthAverage:    {0.60, 0.40},
		strengthWeak:       {0.70, 0.30},
		strengthVeryWeak:   {0.75, 0.25},
	},
	strengthAverage: {
		strengthVeryStrong: {0.25, 0.75},
		strengthStrong:     {0.40, 0.60},
		strengthAverage:    {0.50, 0.50},
		strengthWeak:       {0.60, 0.40},
		strengthVeryWeak:   {0.65, 0.35},
	},
	strengthWeak: {
		strengthVeryStrong: {0.20, 0.80},
		strengthStrong:     {0.30, 0.70},
		strengthAverage:    {0.40, 0.60},
		strengthWeak:       {0.50, 0.50},
		strengthVeryWeak:   {0.55, 0.45},
	},
	strengthVeryWeak: {
		strengthVeryStrong: {0.15, 0.85},
		strengthStrong:     {0.25, 0.75},
		strengthAverage:    {0.35, 0.65},
		strengthWeak:       {0.45, 0.55},
		strengthVeryWeak:   {0.50, 0.50},
	},
}

// classifyAttack buckets a scoring rate (% of games with 1+ goals).
func classifyAttack(rate float64) string {
	switch {
	case rate >= 80:
		return strengthVeryStrong
	case rate >= 65:
		return strengthStrong
	case rate >= 45:
		return strengthAverage
	case rate >= 30:
		return strengthWeak
	default:
		return strengthVeryWeak
	}
}

// classifyDefense buckets a conceding rate; lower means stronger.
func classifyDefense(rate float64) string {
	switch {
	case rate <= 20:
		return strengthVeryStrong
	case rate <= 35:
		return strengthStrong
	case rate <= 55:
		return strengthAverage
	case rate <= 70:
		return strengthWeak
	default:
		return strengthVeryWeak
	}
}

func dynamicWeights(attackRate, defenseRate float64) weightPair {
	return weightMatrix[classifyAttack(attackRate)][classifyDefense(defenseRate)]
}

// adjustForSampleSize pulls the weights toward 50/50 when either side's
// sample is thin, then renormalizes.
func adjustForSampleSize(w weightPair, attackGames, defenseGames int) weightPair {
	minGames := attackGames
	if defenseGames < minGames {
		minGames = defenseGames
	}

	var shrink float64
	switch {
	case minGames < 5:
		shrink = 0.4
	case minGames < 8:
		shrink = 0.2
	default:
		return w
	}

	w.attack = w.attack*(1-shrink) + 0.5*shrink
	w.defense = w.defense*(1-shrink) + 0.5*shrink
	total := w.attack + w.defense
	return weightPair{attack: w.attack / total, defense: w.defense / total}
}

// weightConfidenceBoost rewards lopsided matchups: the clearer the
// favorite, the higher the multiplier.
func weightConfidenceBoost(w weightPair) float64 {
	diff := w.attack - w.defense
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff >= 0.5:
		return 1.15
	case diff >= 0.3:
		return 1.10
	case diff >= 0.2:
		return 1.05
	default:
		return 1.0
	}
}
