package assessment

// Scores holds one value per score dimension.
type Scores struct {
	Memory    float64 `json:"memory"`
	Cognitive float64 `json:"cognitive"`
	Behavior  float64 `json:"behavior"`
}

// Averages are rounded half-up to whole points.
type Averages struct {
	Memory    int `json:"memory"`
	Cognitive int `json:"cognitive"`
	Behavior  int `json:"behavior"`
}

// Stats summarizes a patient's assessment history. AverageScores and Trend
// are null for an empty history; Trend stays null until there are two
// assessments to compare.
type Stats struct {
	TotalAssessments int       `json:"totalAssessments"`
	AverageScores    *Averages `json:"averageScores"`
	LatestScores     *Scores   `json:"latestScores,omitempty"`
	Trend            *Scores   `json:"trend"`
}

// ComputeStats summarizes history, which must be ordered by ascending date.
func ComputeStats(history []*Assessment) Stats {
	n := len(history)
	if n == 0 {
		return Stats{}
	}

	var sum Scores
	for _, a := range history {
		sum.Memory += a.MemoryScore
		sum.Cognitive += a.CognitiveScore
		sum.Behavior += a.BehaviorScore
	}
	first, last := scoresOf(history[0]), scoresOf(history[n-1])

	stats := Stats{
		TotalAssessments: n,
		AverageScores: &Averages{
			Memory:    roundHalfUp(sum.Memory / float64(n)),
			Cognitive: roundHalfUp(sum.Cognitive / float64(n)),
			Behavior:  roundHalfUp(sum.Behavior / float64(n)),
		},
		LatestScores: &last,
	}
	if n > 1 {
		stats.Trend = &Scores{
			Memory:    last.Memory - first.Memory,
			Cognitive: last.Cognitive - first.Cognitive,
			Behavior:  last.Behavior - first.Behavior,
		}
	}
	return stats
}

func scoresOf(a *Assessment) Scores {
	return Scores{Memory: a.MemoryScore, Cognitive: a.CognitiveScore, Behavior: a.BehaviorScore}
}
