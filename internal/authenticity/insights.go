package authenticity

import (
	"deinfluencer/internal/content"
	"deinfluencer/internal/engagement"
	"deinfluencer/internal/models"
)

const (
	maxRedFlagInsights      = 3
	maxPatternIndicators    = 2
	maxContentFlagInsights  = 2
	maxQualityIndicators    = 2
	largeInstagramFollowing = 100_000
)

// GenerateInsights explains score in plain language. When posts are given the
// leaf analyzers are re-run so their flags and indicators can be surfaced.
func (a *Analyzer) GenerateInsights(profile models.Profile, score models.AuthenticityScore, posts []models.Post) []string {
	pattern, quality := a.leafAnalyses(profile, posts)
	return a.insights(profile, score, pattern, quality)
}

func (a *Analyzer) insights(profile models.Profile, score models.AuthenticityScore, pattern *engagement.Result, quality *content.Result) []string {
	out := []string{overallInsight(score.OverallScore)}

	if pattern != nil {
		for _, flag := range head(pattern.RedFlags, maxRedFlagInsights) {
			out = append(out, "🚩 "+flag)
		}
		for _, indicator := range head(pattern.AuthenticityIndicators, maxPatternIndicators) {
			out = append(out, "✅ "+indicator)
		}
		switch {
		case pattern.PatternScore >= 8.0:
			out = append(out, "📊 Excellent engagement patterns indicate authentic audience interaction")
		case pattern.PatternScore <= 3.0:
			out = append(out, "📊 Concerning engagement patterns detected - possible artificial inflation")
		}
	}

	platform := profile.Platform.Normalize()

	if quality != nil {
		for _, flag := range head(quality.ContentFlags, maxContentFlagInsights) {
			out = append(out, "⚠️ "+flag)
		}
		for _, indicator := range head(quality.QualityIndicators, maxQualityIndicators) {
			out = append(out, "✨ "+indicator)
		}
		switch {
		case quality.QualityScore >= 8.0:
			out = append(out, "📝 High-quality, authentic content with personal storytelling")
		case quality.QualityScore <= 3.0:
			out = append(out, "📝 Content shows heavy promotional focus with limited authenticity")
		}

		avg := quality.HashtagAnalysis.AvgHashtagCount
		switch {
		case avg > 15:
			out = append(out, "#️⃣ Excessive hashtag usage may indicate spam-like behavior")
		case avg < 2 && (platform == models.PlatformInstagram || platform == models.PlatformTikTok):
			out = append(out, "#️⃣ Low hashtag usage may limit content discoverability")
		}
	}

	out = appendBanded(out, score.EngagementQuality,
		"✅ Excellent engagement rates indicate genuine audience connection",
		"⚠️ Low engagement rates may suggest inactive or fake followers")
	out = appendBanded(out, score.ContentAuthenticity,
		"✅ Content appears genuine and personal",
		"⚠️ Content shows signs of heavy commercialization")
	out = appendBanded(out, score.SponsoredRatio,
		"✅ Minimal sponsored content maintains authenticity",
		"⚠️ High ratio of sponsored content may impact trust")
	out = appendBanded(out, score.FollowerAuthenticity,
		"✅ Healthy follower-to-following ratio suggests organic growth",
		"⚠️ Follower patterns may indicate purchased or fake followers")

	switch {
	case platform == models.PlatformInstagram && profile.FollowerCount > largeInstagramFollowing:
		out = append(out, "📸 Large Instagram following - check for engagement pod activity")
	case platform == models.PlatformTwitter && profile.EngagementRate != nil && *profile.EngagementRate > 10:
		out = append(out, "🐦 Unusually high Twitter engagement - verify authenticity")
	case platform == models.PlatformTikTok && score.ConsistencyScore <= 5.0:
		out = append(out, "🎵 Inconsistent TikTok posting pattern detected")
	}

	return out
}

func overallInsight(overall float64) string {
	switch {
	case overall >= 8.0:
		return "🟢 Highly authentic influencer with genuine engagement"
	case overall >= 6.0:
		return "🟡 Generally authentic with some areas for improvement"
	case overall >= 4.0:
		return "🟠 Moderate authenticity concerns detected"
	default:
		return "🔴 Significant authenticity issues identified"
	}
}

// appendBanded adds high when score >= 8 and low when score <= 4
func appendBanded(out []string, score float64, high, low string) []string {
	switch {
	case score >= 8.0:
		return append(out, high)
	case score <= 4.0:
		return append(out, low)
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// GenerateRecommendations suggests how to proceed with a partnership
func (a *Analyzer) GenerateRecommendations(profile models.Profile, score models.AuthenticityScore) []string {
	var out []string

	switch {
	case score.OverallScore >= 8.0:
		out = append(out,
			"✅ This influencer appears highly trustworthy for partnerships",
			"💡 Consider long-term collaboration opportunities")
	case score.OverallScore >= 6.0:
		out = append(out,
			"✅ Generally reliable influencer with minor concerns",
			"💡 Monitor engagement patterns before major campaigns")
	case score.OverallScore >= 4.0:
		out = append(out,
			"⚠️ Proceed with caution - request additional verification",
			"💡 Consider smaller test campaigns first")
	default:
		out = append(out,
			"❌ High risk - not recommended for partnerships",
			"💡 Look for alternative influencers with better authenticity scores")
	}

	if score.EngagementQuality <= 5.0 {
		out = append(out, "🔍 Verify audience quality and engagement authenticity")
	}
	if score.SponsoredRatio <= 5.0 {
		out = append(out, "📝 Request disclosure of recent brand partnerships")
	}
	if score.FollowerAuthenticity <= 5.0 {
		out = append(out, "👥 Audit follower quality using third-party tools")
	}
	return out
}
