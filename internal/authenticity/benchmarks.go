package authenticity

import "deinfluencer/internal/models"

// band holds the excellent/good/poor cut-offs of a metric where higher is better
type band struct {
	Excellent float64
	Good      float64
	Poor      float64
}

// frequency is the healthy posts-per-week range
type frequency struct {
	Min float64
	Max float64
}

type benchmarks struct {
	// EngagementRate is a percentage of followers engaging per post
	EngagementRate band
	// FollowerRatio is followers / following
	FollowerRatio band
	PostsPerWeek  frequency
}

var platformBenchmarks = map[models.Platform]benchmarks{
	models.PlatformInstagram: {
		EngagementRate: band{Excellent: 6.0, Good: 3.0, Poor: 1.0},
		FollowerRatio:  band{Excellent: 100, Good: 10, Poor: 2},
		PostsPerWeek:   frequency{Min: 3, Max: 7},
	},
	models.PlatformTwitter: {
		EngagementRate: band{Excellent: 3.0, Good: 1.5, Poor: 0.5},
		FollowerRatio:  band{Excellent: 50, Good: 5, Poor: 1},
		PostsPerWeek:   frequency{Min: 7, Max: 21},
	},
	models.PlatformYouTube: {
		EngagementRate: band{Excellent: 8.0, Good: 4.0, Poor: 1.0},
		FollowerRatio:  band{Excellent: 1000, Good: 100, Poor: 10},
		PostsPerWeek:   frequency{Min: 1, Max: 3},
	},
	models.PlatformTikTok: {
		EngagementRate: band{Excellent: 15.0, Good: 8.0, Poor: 3.0},
		FollowerRatio:  band{Excellent: 200, Good: 20, Poor: 5},
		PostsPerWeek:   frequency{Min: 3, Max: 14},
	},
}

func benchmarksFor(p models.Platform) benchmarks {
	if b, ok := platformBenchmarks[p.Normalize()]; ok {
		return b
	}
	return platformBenchmarks[models.PlatformInstagram]
}

var (
	authenticBioKeywords = []string{"authentic", "real", "genuine", "honest", "personal", "family", "life"}
	spamBioKeywords      = []string{"dm for collab", "business inquiries", "pr packages", "brand partnerships"}
)

// defaultEngagementRate is used when a rate can be neither read nor derived
const defaultEngagementRate = 2.0

// neutralScore is what a sub-score falls back to when its computation fails
const neutralScore = 5.0
