package engagement

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"deinfluencer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func uniformPosts(n int, interval time.Duration) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			Likes:     1000,
			Comments:  60,
			CreatedAt: base.Add(time.Duration(i) * interval),
		}
	}
	return posts
}

// naturalPosts have moderate engagement spread, varied comment ratios and
// irregular but human posting gaps.
func naturalPosts() []models.Post {
	likes := []int64{1000, 1200, 800, 1500, 900, 1100}
	comments := []int64{50, 200, 40, 300, 60, 150}
	offsets := []int{0, 26, 70, 95, 150, 170}

	posts := make([]models.Post, len(likes))
	for i := range posts {
		posts[i] = models.Post{
			Likes:       likes[i],
			Comments:    comments[i],
			CreatedAt:   base.Add(time.Duration(offsets[i]) * time.Hour),
			IsSponsored: i == 1,
		}
	}
	return posts
}

func containsFlag(flags []string, fragment string) bool {
	for _, f := range flags {
		if strings.Contains(strings.ToLower(f), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

func TestAnalyze_TooFewPostsReturnsDefault(t *testing.T) {
	a := NewAnalyzer(nil)

	for _, n := range []int{0, 1, 2} {
		result := a.Analyze(uniformPosts(n, time.Hour), models.PlatformInstagram)
		assert.Equal(t, DefaultResult(), result)
		assert.Equal(t, 5.0, result.PatternScore)
		assert.Empty(t, result.RedFlags)
		assert.Empty(t, result.AuthenticityIndicators)
	}
}

func TestAnalyze_UniformEngagementIsFlagged(t *testing.T) {
	a := NewAnalyzer(nil)
	result := a.Analyze(uniformPosts(10, time.Hour), models.PlatformInstagram)

	assert.Equal(t, 3.0, result.VarianceAnalysis.Score)
	assert.True(t, result.VarianceAnalysis.IsSuspicious)
	assert.Equal(t, 5.0, result.SpikeAnalysis.Score, "no spread means no z-scores")
	assert.InDelta(t, 5.95, result.RatioAnalysis.Score, 1e-9)
	assert.Equal(t, TimingAutomatedRegular, result.TimingAnalysis.PatternDetected)
	assert.Equal(t, 3.0, result.TimingAnalysis.Score)
	assert.Equal(t, ConsistencySingleType, result.ConsistencyAnalysis.Consistency)

	assert.InDelta(t, 4.69, result.PatternScore, 1e-9)
	assert.True(t, containsFlag(result.RedFlags, "suspiciously consistent engagement"))
	assert.True(t, containsFlag(result.RedFlags, "comment-to-like"))
	assert.True(t, containsFlag(result.RedFlags, "regular posting intervals"))
	assert.Empty(t, result.AuthenticityIndicators)
}

func TestAnalyze_NaturalEngagement(t *testing.T) {
	a := NewAnalyzer(nil)
	result := a.Analyze(naturalPosts(), models.PlatformInstagram)

	assert.Equal(t, 8.5, result.VarianceAnalysis.Score)
	assert.False(t, result.VarianceAnalysis.IsSuspicious)
	assert.Equal(t, 9.0, result.SpikeAnalysis.Score)
	assert.Equal(t, 0, result.SpikeAnalysis.SpikesDetected)
	assert.Equal(t, 8.5, result.RatioAnalysis.Score)
	assert.False(t, result.RatioAnalysis.IsSuspicious)
	assert.Equal(t, TimingNatural, result.TimingAnalysis.PatternDetected)
	assert.Equal(t, ConsistencyBalanced, result.ConsistencyAnalysis.Consistency)
	require.NotNil(t, result.ConsistencyAnalysis.EngagementRatio)

	assert.InDelta(t, 8.48, result.PatternScore, 0.011)
	assert.Empty(t, result.RedFlags)
	assert.Len(t, result.AuthenticityIndicators, 3)
}

func TestDetectSpikes(t *testing.T) {
	build := func(sponsored bool) []metrics {
		data := make([]metrics, 30)
		for i := range data {
			data[i] = metrics{total: 100}
		}
		data[7] = metrics{total: 10000, isSponsored: sponsored}
		return data
	}

	t.Run("organic spike is penalized", func(t *testing.T) {
		analysis := detectSpikes(build(false), thresholdsFor(models.PlatformInstagram))
		require.Equal(t, 1, analysis.SpikesDetected)
		assert.Equal(t, 7, analysis.SuspiciousSpikes[0].PostIndex)
		assert.InDelta(t, 6.0, analysis.Score, 1e-9)
		assert.InDelta(t, 1.0/30, analysis.SpikeRatio, 1e-9)
	})

	t.Run("sponsored spike is tolerated", func(t *testing.T) {
		analysis := detectSpikes(build(true), thresholdsFor(models.PlatformInstagram))
		require.Equal(t, 1, analysis.SpikesDetected)
		assert.Equal(t, 7.5, analysis.Score)
	})

	t.Run("twitter multiplier is higher", func(t *testing.T) {
		analysis := detectSpikes(build(false), thresholdsFor(models.PlatformTwitter))
		assert.Equal(t, 0, analysis.SpikesDetected)
		assert.Equal(t, 9.0, analysis.Score)
	})

	t.Run("small samples are skipped", func(t *testing.T) {
		analysis := detectSpikes(build(false)[:4], thresholdsFor(models.PlatformInstagram))
		assert.Equal(t, 7.0, analysis.Score)
		assert.Equal(t, 0.0, analysis.SpikeRatio)
	})
}

func TestAnalyzeRatios(t *testing.T) {
	th := thresholdsFor(models.PlatformInstagram)

	tests := []struct {
		name       string
		data       []metrics
		wantScore  float64
		suspicious bool
	}{
		{"low ratio", []metrics{{ratio: 0.001}, {ratio: 0.002}, {ratio: 0.1}}, 4.0, false},
		{"healthy ratio", []metrics{{ratio: 0.05}, {ratio: 0.1}, {ratio: 0.2}}, 8.5, false},
		{"engagement pod", []metrics{{ratio: 0.3}, {ratio: 0.5}, {ratio: 0.4}}, 6.0, false},
		{"uniform ratio", []metrics{{ratio: 0.1}, {ratio: 0.1}, {ratio: 0.1}}, 8.5 * 0.7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := analyzeRatios(tt.data, th)
			assert.InDelta(t, tt.wantScore, analysis.Score, 1e-9)
			assert.Equal(t, tt.suspicious, analysis.IsSuspicious)
		})
	}
}

func TestAnalyzeTiming(t *testing.T) {
	t.Run("night-time clockwork posting", func(t *testing.T) {
		posts := make([]models.Post, 5)
		for i := range posts {
			posts[i] = models.Post{CreatedAt: time.Date(2024, 3, 4+i, 4, 0, 0, 0, time.UTC)}
		}
		analysis := analyzeTiming(posts)
		assert.Equal(t, TimingAutomatedRegular, analysis.PatternDetected)
		assert.InDelta(t, 2.4, analysis.Score, 1e-9)
		assert.Equal(t, 1.0, analysis.NightPostRatio)

		flags := redFlags(VarianceAnalysis{Variance: 0.3}, SpikeAnalysis{}, RatioAnalysis{}, analysis)
		assert.True(t, containsFlag(flags, "unusual hours"))
		assert.True(t, containsFlag(flags, "regular posting intervals"))
	})

	t.Run("malformed timestamps", func(t *testing.T) {
		posts := make([]models.Post, 5)
		analysis := analyzeTiming(posts)
		assert.Equal(t, TimingParseError, analysis.PatternDetected)
		assert.Equal(t, 5.0, analysis.Score)
	})

	t.Run("too few intervals", func(t *testing.T) {
		posts := uniformPosts(5, time.Hour)
		posts[0].CreatedAt = time.Time{}
		posts[3].CreatedAt = time.Time{}
		analysis := analyzeTiming(posts)
		assert.Equal(t, TimingInsufficientIntervals, analysis.PatternDetected)
		assert.Equal(t, 7.0, analysis.Score)
	})

	t.Run("insufficient posts", func(t *testing.T) {
		analysis := analyzeTiming(uniformPosts(4, time.Hour))
		assert.Equal(t, TimingInsufficientData, analysis.PatternDetected)
		assert.Equal(t, 7.0, analysis.Score)
	})
}

func TestAnalyzeConsistency(t *testing.T) {
	t.Run("sponsored inflated", func(t *testing.T) {
		data := []metrics{{total: 100}, {total: 100}, {total: 100}, {total: 100}, {total: 1000, isSponsored: true}}
		analysis := analyzeConsistency(data)
		assert.Equal(t, ConsistencySponsoredInflated, analysis.Consistency)
		assert.Equal(t, 3.0, analysis.Score)
		require.NotNil(t, analysis.EngagementRatio)
		assert.Equal(t, 10.0, *analysis.EngagementRatio)
	})

	t.Run("organic higher", func(t *testing.T) {
		data := []metrics{{total: 1000}, {total: 1000}, {total: 100, isSponsored: true}}
		analysis := analyzeConsistency(data)
		assert.Equal(t, ConsistencyOrganicHigher, analysis.Consistency)
		assert.Equal(t, 6.0, analysis.Score)
	})

	t.Run("zero organic engagement", func(t *testing.T) {
		data := []metrics{{total: 0}, {total: 0}, {total: 50, isSponsored: true}}
		analysis := analyzeConsistency(data)
		assert.Equal(t, ConsistencySponsoredInflated, analysis.Consistency)
		assert.Nil(t, analysis.EngagementRatio)

		_, err := json.Marshal(analysis)
		assert.NoError(t, err)
	})
}

func TestAnalyze_ZeroEngagement(t *testing.T) {
	posts := make([]models.Post, 6)
	for i := range posts {
		posts[i] = models.Post{CreatedAt: base.Add(time.Duration(i*i) * time.Hour)}
	}

	result := NewAnalyzer(nil).Analyze(posts, models.PlatformTikTok)
	assert.Equal(t, 3.0, result.VarianceAnalysis.Score)
	assert.GreaterOrEqual(t, result.PatternScore, 0.0)
	assert.LessOrEqual(t, result.PatternScore, 10.0)

	_, err := json.Marshal(result)
	assert.NoError(t, err)
}

func TestAnalyze_UnknownPlatformUsesInstagramBenchmarks(t *testing.T) {
	a := NewAnalyzer(nil)
	want := a.Analyze(naturalPosts(), models.PlatformInstagram)
	got := a.Analyze(naturalPosts(), models.Platform("facebook"))
	assert.Equal(t, want, got)
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer(nil)
	first := a.Analyze(naturalPosts(), models.PlatformYouTube)
	second := a.Analyze(naturalPosts(), models.PlatformYouTube)
	assert.Equal(t, first, second)
}
