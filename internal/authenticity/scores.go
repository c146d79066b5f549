package authenticity

import (
	"math"
	"strings"

	"deinfluencer/internal/content"
	"deinfluencer/internal/engagement"
	"deinfluencer/internal/models"
	"deinfluencer/internal/stats"
)

// effectiveEngagementRate prefers the rate reported with the profile and
// otherwise derives mean(likes + 5*comments) / followers as a percentage
func effectiveEngagementRate(profile models.Profile, posts []models.Post) float64 {
	if r := profile.EngagementRate; r != nil && !math.IsNaN(*r) && !math.IsInf(*r, 0) && *r > 0 {
		return *r
	}
	if len(posts) == 0 || profile.FollowerCount <= 0 {
		return defaultEngagementRate
	}

	var total float64
	for _, p := range posts {
		total += float64(max(p.Likes, 0)) + float64(max(p.Comments, 0))*5
	}
	// Posts with no likes or comments derive 0, not the default rate, so a
	// silent account scores at the bottom of the engagement band.
	return total / float64(len(posts)) / float64(profile.FollowerCount) * 100
}

// interpolate maps value onto the 0-10 scale using the band cut-offs: below
// poor scales from 1 to 3, poor..good from 3 to 6, good..excellent from 6 to 9.
// Values at or above excellent are handled by the caller.
func interpolate(value float64, b band) float64 {
	switch {
	case value >= b.Good:
		return 6.0 + 3.0*(value-b.Good)/(b.Excellent-b.Good)
	case value >= b.Poor:
		return 3.0 + 3.0*(value-b.Poor)/(b.Good-b.Poor)
	default:
		return math.Max(1.0, 3.0*value/b.Poor)
	}
}

func baseEngagementScore(rate float64, b band) float64 {
	var score float64
	if rate >= b.Excellent {
		score = 9.0 + math.Min(1.0, (rate-b.Excellent)/b.Excellent)
	} else {
		score = interpolate(rate, b)
	}
	// Far above excellent is not a real audience.
	if rate > b.Excellent*3 {
		score *= 0.6
	}
	return score
}

func engagementQuality(rate float64, b band, pattern *engagement.Result) float64 {
	score := baseEngagementScore(rate, b)
	if pattern == nil {
		return stats.ClampScore(score)
	}

	score = score*0.7 + pattern.PatternScore*0.3
	switch n := len(pattern.RedFlags); {
	case n > 2:
		score *= 0.8
	case n > 0:
		score *= 0.9
	}
	if len(pattern.AuthenticityIndicators) > 1 {
		score *= 1.1
	}
	return stats.ClampScore(score)
}

func bioScore(bio string) float64 {
	bio = strings.ToLower(bio)
	score := 7.0
	for _, k := range authenticBioKeywords {
		if strings.Contains(bio, k) {
			score += 0.3
		}
	}
	for _, k := range spamBioKeywords {
		if strings.Contains(bio, k) {
			score -= 0.5
		}
	}
	return score
}

// contentAuthenticity blends the bio with the caption analysis. Without a
// caption analysis it falls back to sponsored share and engagement spread.
func contentAuthenticity(profile models.Profile, posts []models.Post, quality *content.Result) float64 {
	score := bioScore(profile.Bio)

	if quality != nil {
		score = score*0.6 + quality.QualityScore*0.4
		switch n := len(quality.ContentFlags); {
		case n > 2:
			score *= 0.7
		case n > 0:
			score *= 0.85
		}
		switch n := len(quality.QualityIndicators); {
		case n > 2:
			score *= 1.15
		case n > 0:
			score *= 1.05
		}
		if quality.AuthenticityAnalysis.Score > 7.0 {
			score *= 1.1
		}
		if quality.SpamAnalysis.Score < 5.0 {
			score *= 0.8
		}
		return stats.ClampScore(score)
	}

	if len(posts) > 0 {
		switch share := sponsoredShare(posts); {
		case share > 0.5:
			score -= 2.0
		case share > 0.3:
			score -= 1.0
		}
		switch v := engagementVariance(posts); {
		case v > 0.3:
			score += 1.0
		case v < 0.1:
			score -= 1.0
		}
	}
	// Verification can be bought, so it only nudges the fallback.
	if profile.Verified {
		score += 0.5
	}
	return stats.ClampScore(score)
}

func sponsoredShare(posts []models.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	n := 0
	for _, p := range posts {
		if p.IsSponsored {
			n++
		}
	}
	return float64(n) / float64(len(posts))
}

// sponsoredRatioScore is higher the fewer posts are sponsored
func sponsoredRatioScore(posts []models.Post) float64 {
	if len(posts) == 0 {
		return 7.0
	}
	switch share := sponsoredShare(posts); {
	case share == 0:
		return 10.0
	case share <= 0.1:
		return 9.0
	case share <= 0.2:
		return 7.5
	case share <= 0.3:
		return 6.0
	case share <= 0.5:
		return 4.0
	default:
		return 2.0
	}
}

func followerAuthenticity(profile models.Profile, b band) float64 {
	followers := float64(max(profile.FollowerCount, 0))
	following := float64(max(profile.FollowingCount, 1))
	ratio := followers / following

	// Beyond 100x excellent the ratio only earns a logarithmic bonus.
	ceiling := b.Excellent * 100

	var score float64
	switch {
	case ratio >= ceiling:
		score = 9.5 + math.Min(0.5, math.Log10(ratio/ceiling)*0.1)
	case ratio >= b.Excellent:
		score = 9.0 + math.Min(1.0, (ratio-b.Excellent)/b.Excellent*0.5)
	default:
		score = interpolate(ratio, b)
	}

	switch {
	case followers < 1_000:
		score *= 0.8
	case followers > 10_000_000:
		score *= 0.9
	}
	if following > followers*2 {
		score *= 0.7
	}
	return stats.ClampScore(score)
}

// consistencyScore rewards a platform-typical posting cadence and a natural
// engagement spread. The post window is assumed to cover about four weeks.
func consistencyScore(posts []models.Post, f frequency) float64 {
	score := 7.0
	if len(posts) < 2 {
		return score
	}

	perWeek := float64(len(posts)) / 4
	switch {
	case perWeek >= f.Min && perWeek <= f.Max:
		score += 1.5
	case perWeek < f.Min/2:
		score -= 1.0
	case perWeek > f.Max*2:
		score -= 1.0
	}

	score += engagementConsistency(posts)
	return stats.ClampScore(score)
}

func engagementConsistency(posts []models.Post) float64 {
	if len(posts) < 3 {
		return 0
	}
	switch v := engagementVariance(posts); {
	case v >= 0.2 && v <= 0.6:
		return 1.0
	case v < 0.1:
		return -1.0
	case v > 0.8:
		return -0.5
	default:
		return 0
	}
}

// engagementVariance is the coefficient of variation of likes + 5*comments,
// capped at 1. Too few posts or no engagement yields 0.5.
func engagementVariance(posts []models.Post) float64 {
	if len(posts) < 2 {
		return 0.5
	}
	xs := make([]float64, len(posts))
	for i, p := range posts {
		xs[i] = float64(max(p.Likes, 0)) + float64(max(p.Comments, 0))*5
	}
	cov, ok := stats.CoefficientOfVariation(xs)
	if !ok {
		return 0.5
	}
	return math.Min(1.0, cov)
}
