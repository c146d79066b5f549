package content

import (
	"strings"

	"deinfluencer/internal/models"
	"deinfluencer/internal/stats"

	"github.com/jonreiter/govader"
)

// sentimentThreshold splits VADER compound scores into positive / neutral / negative
const sentimentThreshold = 0.20

var vader = govader.NewSentimentIntensityAnalyzer()

// SentimentAnalysis summarizes caption tone. It is informational and does not
// feed the quality score.
type SentimentAnalysis struct {
	MeanCompound float64 `json:"mean_compound"`
	Positive     int     `json:"positive"`
	Neutral      int     `json:"neutral"`
	Negative     int     `json:"negative"`
	// PositiveShare is the fraction of captions that read as positive
	PositiveShare float64 `json:"positive_share"`
}

// analyzeSentiment scores raw captions; VADER uses case and punctuation, so
// the lower-cased text used elsewhere is not suitable.
func analyzeSentiment(posts []models.Post) SentimentAnalysis {
	var (
		result    SentimentAnalysis
		compounds []float64
	)
	for _, p := range posts {
		caption := strings.TrimSpace(p.Caption)
		if caption == "" {
			continue
		}
		score := vader.PolarityScores(caption).Compound
		compounds = append(compounds, score)
		switch {
		case score >= sentimentThreshold:
			result.Positive++
		case score <= -sentimentThreshold:
			result.Negative++
		default:
			result.Neutral++
		}
	}
	if len(compounds) == 0 {
		return result
	}
	result.MeanCompound = stats.Round2(stats.Mean(compounds))
	result.PositiveShare = stats.Round2(float64(result.Positive) / float64(len(compounds)))
	return result
}
