package prober

import (
	"math"
	"sort"
)

// Summary is the per-region statistics snapshot. Valid is false when the
// region collected no successful samples; the numeric fields are zero then
// and must be rendered as missing data, not as zeros.
type Summary struct {
	Region    string
	Geography string
	Samples   int
	MinMs     float64
	MaxMs     float64
	AvgMs     float64
	JitterMs  float64
	Valid     bool
}

// Summarize reduces each endpoint's sample series to a Summary. Rows are
// ordered by geography group, then by region name. Input series are not
// mutated.
func Summarize(result *RunResult) []Summary {
	summaries := make([]Summary, 0, len(result.Endpoints))

	for _, ep := range result.Endpoints {
		s := reduce(result.Series[ep.Name])
		s.Region = ep.Name
		s.Geography = ep.Geography
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Geography != summaries[j].Geography {
			return summaries[i].Geography < summaries[j].Geography
		}
		return summaries[i].Region < summaries[j].Region
	})

	return summaries
}

// reduce computes min/max/mean/jitter for one series. Jitter is the mean of
// absolute differences between consecutive samples, 0 for fewer than two.
func reduce(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}

	minimum := math.MaxFloat64
	maximum := -math.MaxFloat64
	sum := 0.0
	for _, v := range series {
		if v < minimum {
			minimum = v
		}
		if v > maximum {
			maximum = v
		}
		sum += v
	}

	jitter := 0.0
	if len(series) >= 2 {
		diffSum := 0.0
		for i := 1; i < len(series); i++ {
			diffSum += math.Abs(series[i] - series[i-1])
		}
		jitter = diffSum / float64(len(series)-1)
	}

	return Summary{
		Samples:  len(series),
		MinMs:    minimum,
		MaxMs:    maximum,
		AvgMs:    sum / float64(len(series)),
		JitterMs: jitter,
		Valid:    true,
	}
}
