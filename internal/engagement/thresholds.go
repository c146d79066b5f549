package engagement

import "deinfluencer/internal/models"

// thresholds are the per-platform limits used by the pattern checks
type thresholds struct {
	// NormalVariance is the upper bound of the healthy engagement CoV band
	NormalVariance float64
	// SpikeMultiplier is the |z| above which a post counts as a spike
	SpikeMultiplier float64
	// ExpectedCommentRatio is the typical comments/likes ratio
	ExpectedCommentRatio float64
}

var platformThresholds = map[models.Platform]thresholds{
	models.PlatformInstagram: {
		NormalVariance:       0.4,
		SpikeMultiplier:      5.0,
		ExpectedCommentRatio: 0.1,
	},
	models.PlatformTwitter: {
		NormalVariance:       0.6,
		SpikeMultiplier:      8.0,
		ExpectedCommentRatio: 0.05,
	},
	models.PlatformYouTube: {
		NormalVariance:       0.5,
		SpikeMultiplier:      4.0,
		ExpectedCommentRatio: 0.02,
	},
	models.PlatformTikTok: {
		NormalVariance:       0.7,
		SpikeMultiplier:      6.0,
		ExpectedCommentRatio: 0.15,
	},
}

func thresholdsFor(p models.Platform) thresholds {
	if t, ok := platformThresholds[p.Normalize()]; ok {
		return t
	}
	return platformThresholds[models.PlatformInstagram]
}
