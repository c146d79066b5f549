package authenticity

import (
	"sync"
	"testing"
	"time"

	"deinfluencer/internal/content"
	"deinfluencer/internal/engagement"
	"deinfluencer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

type mockPatternAnalyzer struct {
	mock.Mock
}

func (m *mockPatternAnalyzer) Analyze(posts []models.Post, platform models.Platform) *engagement.Result {
	args := m.Called(posts, platform)
	return args.Get(0).(*engagement.Result)
}

type mockContentAnalyzer struct {
	mock.Mock
}

func (m *mockContentAnalyzer) Analyze(posts []models.Post, platform models.Platform) *content.Result {
	args := m.Called(posts, platform)
	return args.Get(0).(*content.Result)
}

type panickingPatternAnalyzer struct{}

func (panickingPatternAnalyzer) Analyze([]models.Post, models.Platform) *engagement.Result {
	panic("boom")
}

func weeklyPosts(n int, likes, comments int64) []models.Post {
	posts := make([]models.Post, n)
	start := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	for i := range posts {
		posts[i] = models.Post{
			Likes:     likes,
			Comments:  comments,
			CreatedAt: start.Add(time.Duration(i) * 7 * 24 * time.Hour),
		}
	}
	return posts
}

func floatPtr(f float64) *float64 { return &f }

func assertInRange(t *testing.T, s models.AuthenticityScore) {
	t.Helper()
	for name, v := range map[string]float64{
		"overall":     s.OverallScore,
		"engagement":  s.EngagementQuality,
		"content":     s.ContentAuthenticity,
		"sponsored":   s.SponsoredRatio,
		"follower":    s.FollowerAuthenticity,
		"consistency": s.ConsistencyScore,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 10.0, name)
	}
}

func TestAnalyzeAuthenticity_HealthyInstagramAccount(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))
	profile := models.Profile{
		Username:       "trailrunner",
		Platform:       models.PlatformInstagram,
		FollowerCount:  50_000,
		FollowingCount: 500,
	}

	score := a.AnalyzeAuthenticity(profile, weeklyPosts(5, 1000, 50))

	assert.GreaterOrEqual(t, score.FollowerAuthenticity, 9.0)
	assert.Equal(t, 10.0, score.SponsoredRatio)
	assert.Equal(t, fixedTime, score.LastUpdated)
	assertInRange(t, score)
}

func TestAnalyzeAuthenticity_NoPosts(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))
	profile := models.Profile{
		Platform:       models.PlatformInstagram,
		FollowerCount:  50_000,
		FollowingCount: 500,
	}

	report := a.Evaluate(profile, nil)
	score := report.Score

	assert.Equal(t, 4.5, score.EngagementQuality, "default engagement rate")
	assert.Equal(t, 7.0, score.ContentAuthenticity)
	assert.Equal(t, 7.0, score.SponsoredRatio)
	assert.Equal(t, 9.0, score.FollowerAuthenticity)
	assert.Equal(t, 7.0, score.ConsistencyScore)
	assert.InDelta(t, 6.78, score.OverallScore, 0.011)

	assert.Nil(t, report.EngagementPattern)
	assert.Nil(t, report.ContentQuality)
	assert.Equal(t, []string{
		"🟡 Generally authentic with some areas for improvement",
		"✅ Healthy follower-to-following ratio suggests organic growth",
	}, report.Insights)
	assert.Equal(t, []string{
		"✅ Generally reliable influencer with minor concerns",
		"💡 Monitor engagement patterns before major campaigns",
		"🔍 Verify audience quality and engagement authenticity",
	}, report.Recommendations)
}

func TestAnalyzeAuthenticity_ZeroFollowing(t *testing.T) {
	a := NewAnalyzer()
	profile := models.Profile{Platform: models.PlatformTwitter, FollowerCount: 5000}

	var score models.AuthenticityScore
	require.NotPanics(t, func() {
		score = a.AnalyzeAuthenticity(profile, weeklyPosts(4, 10, 1))
	})
	assertInRange(t, score)
}

func TestAnalyzeAuthenticity_Deterministic(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))
	profile := models.Profile{
		Platform:       models.PlatformTikTok,
		FollowerCount:  120_000,
		FollowingCount: 900,
		Bio:            "Real life with my family",
	}
	posts := weeklyPosts(8, 4000, 300)
	posts[2].Likes = 9000
	posts[5].IsSponsored = true
	posts[5].Caption = "Use my code SAVE20 #ad"

	first := a.Evaluate(profile, posts)
	second := a.Evaluate(profile, posts)
	assert.Equal(t, first, second)
}

func TestEvaluate_ConcurrentUse(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))
	profile := models.Profile{
		Platform:       models.PlatformInstagram,
		FollowerCount:  48_000,
		FollowingCount: 610,
		Bio:            "Trail runs and coffee",
	}
	posts := weeklyPosts(10, 1800, 90)
	posts[3].IsSponsored = true
	posts[3].Caption = "Loving these shoes #ad use code RUN15"
	posts[7].Likes = 7000

	want := a.Evaluate(profile, posts)

	const workers = 32
	reports := make([]*Report, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = a.Evaluate(profile, posts)
		}(i)
	}
	wg.Wait()

	for i, got := range reports {
		assert.Equal(t, want, got, "worker %d", i)
	}
}

func TestAnalyzeAuthenticity_ScoresStayInRange(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))

	followers := []int64{0, 50, 999, 25_000, 2_000_000, 50_000_000}
	following := []int64{0, 1, 300, 100_000}
	rates := []*float64{nil, floatPtr(0), floatPtr(0.2), floatPtr(7), floatPtr(500)}

	for _, platform := range append(models.SupportedPlatforms(), "myspace") {
		for _, fc := range followers {
			for _, fg := range following {
				for _, rate := range rates {
					profile := models.Profile{
						Platform:       platform,
						FollowerCount:  fc,
						FollowingCount: fg,
						EngagementRate: rate,
						Verified:       fc > 1_000_000,
					}
					assertInRange(t, a.AnalyzeAuthenticity(profile, weeklyPosts(6, fc/100, fc/1000)))
				}
			}
		}
	}
}

func TestEffectiveEngagementRate(t *testing.T) {
	posts := weeklyPosts(4, 1000, 50)

	tests := []struct {
		name    string
		profile models.Profile
		posts   []models.Post
		want    float64
	}{
		{"reported rate wins", models.Profile{FollowerCount: 50_000, EngagementRate: floatPtr(4.2)}, posts, 4.2},
		{"zero rate is derived", models.Profile{FollowerCount: 50_000, EngagementRate: floatPtr(0)}, posts, 2.5},
		{"derived from posts", models.Profile{FollowerCount: 50_000}, posts, 2.5},
		{"no posts", models.Profile{FollowerCount: 50_000}, nil, defaultEngagementRate},
		{"no followers", models.Profile{}, posts, defaultEngagementRate},
		{"zero engagement derives 0", models.Profile{FollowerCount: 10_000}, weeklyPosts(5, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, effectiveEngagementRate(tt.profile, tt.posts), 1e-9)
		})
	}
}

func TestEngagementQuality_Monotonic(t *testing.T) {
	for _, platform := range models.SupportedPlatforms() {
		b := benchmarksFor(platform).EngagementRate

		prev := -1.0
		for i := 0; i <= 400; i++ {
			rate := b.Excellent * float64(i) / 400
			got := engagementQuality(rate, b, nil)
			assert.GreaterOrEqual(t, got, prev, "%s rate %.3f", platform, rate)
			prev = got
		}

		assert.Equal(t, 1.0, engagementQuality(0, b, nil), "%s zero engagement", platform)
		assert.Equal(t, 9.0, engagementQuality(b.Excellent, b, nil))
		assert.Less(t, engagementQuality(b.Excellent*4, b, nil), engagementQuality(b.Excellent, b, nil),
			"%s bot penalty", platform)
	}
}

func TestEngagementQuality_WithPattern(t *testing.T) {
	b := benchmarksFor(models.PlatformInstagram).EngagementRate

	flagged := &engagement.Result{PatternScore: 4.69, RedFlags: []string{"a", "b", "c"}}
	assert.InDelta(t, (7.5*0.7+4.69*0.3)*0.8, engagementQuality(4.5, b, flagged), 1e-9)

	healthy := &engagement.Result{PatternScore: 8.48, AuthenticityIndicators: []string{"a", "b", "c"}}
	assert.InDelta(t, (7.5*0.7+8.48*0.3)*1.1, engagementQuality(4.5, b, healthy), 1e-9)

	oneFlag := &engagement.Result{PatternScore: 5, RedFlags: []string{"a"}}
	assert.InDelta(t, (7.5*0.7+5*0.3)*0.9, engagementQuality(4.5, b, oneFlag), 1e-9)
}

func TestContentAuthenticity(t *testing.T) {
	t.Run("bio keywords and verification", func(t *testing.T) {
		profile := models.Profile{Bio: "Real life, family first", Verified: true}
		assert.InDelta(t, 8.4, contentAuthenticity(profile, nil, nil), 1e-9)
	})

	t.Run("commercial bio", func(t *testing.T) {
		profile := models.Profile{Bio: "DM for collab | Business inquiries: hi@example.com"}
		assert.InDelta(t, 6.0, contentAuthenticity(profile, nil, nil), 1e-9)
	})

	t.Run("fallback penalizes sponsored and uniform posts", func(t *testing.T) {
		posts := weeklyPosts(10, 500, 20)
		for i := 0; i < 6; i++ {
			posts[i].IsSponsored = true
		}
		assert.InDelta(t, 4.0, contentAuthenticity(models.Profile{}, posts, nil), 1e-9)
	})

	t.Run("personal captions", func(t *testing.T) {
		quality := &content.Result{
			QualityScore:         8.93,
			AuthenticityAnalysis: content.AuthenticityAnalysis{Score: 8.6},
			SpamAnalysis:         content.SpamAnalysis{Score: 10},
			QualityIndicators:    []string{"a", "b", "c", "d"},
		}
		want := (7*0.6 + 8.93*0.4) * 1.15 * 1.1
		assert.InDelta(t, want, contentAuthenticity(models.Profile{Verified: true}, nil, quality), 1e-9,
			"verification only counts without caption analysis")
	})

	t.Run("promotional captions", func(t *testing.T) {
		quality := &content.Result{
			QualityScore: 2.45,
			SpamAnalysis: content.SpamAnalysis{Score: 3},
			ContentFlags: []string{"a", "b", "c"},
		}
		assert.InDelta(t, (7*0.6+2.45*0.4)*0.7*0.8, contentAuthenticity(models.Profile{}, nil, quality), 1e-9)
	})
}

func TestSponsoredRatioScore(t *testing.T) {
	assert.Equal(t, 7.0, sponsoredRatioScore(nil))

	want := map[int]float64{0: 10.0, 1: 9.0, 2: 7.5, 3: 6.0, 5: 4.0, 6: 2.0, 10: 2.0}
	prev := 10.0
	for k := 0; k <= 10; k++ {
		posts := weeklyPosts(10, 100, 5)
		for i := 0; i < k; i++ {
			posts[i].IsSponsored = true
		}
		got := sponsoredRatioScore(posts)
		if w, ok := want[k]; ok {
			assert.Equal(t, w, got, "%d of 10 sponsored", k)
		}
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestFollowerAuthenticity(t *testing.T) {
	ig := benchmarksFor(models.PlatformInstagram).FollowerRatio

	tests := []struct {
		name      string
		followers int64
		following int64
		want      float64
	}{
		{"excellent ratio", 50_000, 500, 9.0},
		{"zero following", 5_000, 0, 10.0},
		{"good band", 50_000, 1_000, 6.0 + 3.0*40/90},
		{"logarithmic ceiling", 2_000_000, 1, 9.730103},
		{"very large account", 20_000_000, 1_000, 9.530103 * 0.9},
		{"follows more than followed", 500, 2_000, 0.56},
		{"empty account", 0, 0, 0.56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.Profile{FollowerCount: tt.followers, FollowingCount: tt.following}
			assert.InDelta(t, tt.want, followerAuthenticity(profile, ig), 1e-6)
		})
	}
}

func TestConsistencyScore(t *testing.T) {
	ig := benchmarksFor(models.PlatformInstagram).PostsPerWeek

	varied := func(n int) []models.Post {
		posts := weeklyPosts(n, 0, 0)
		for i := range posts {
			posts[i].Likes = int64(100 * (i%3 + 1))
		}
		return posts
	}

	assert.Equal(t, 7.0, consistencyScore(nil, ig))
	assert.Equal(t, 7.0, consistencyScore(weeklyPosts(1, 10, 1), ig))
	assert.Equal(t, 6.0, consistencyScore(weeklyPosts(2, 10, 1), ig), "too infrequent")
	assert.Equal(t, 7.5, consistencyScore(weeklyPosts(20, 10, 1), ig), "good cadence, uniform engagement")
	assert.Equal(t, 9.5, consistencyScore(varied(20), ig), "good cadence, natural engagement")
	assert.Equal(t, 5.0, consistencyScore(weeklyPosts(60, 10, 1), ig), "spam-like cadence")
}

func TestEngagementVariance(t *testing.T) {
	assert.Equal(t, 0.5, engagementVariance(weeklyPosts(1, 100, 0)))
	assert.Equal(t, 0.5, engagementVariance(weeklyPosts(4, 0, 0)))
	assert.Equal(t, 0.0, engagementVariance(weeklyPosts(4, 100, 10)))

	posts := weeklyPosts(3, 0, 0)
	posts[0].Likes, posts[1].Likes, posts[2].Likes = 100, 200, 300
	assert.InDelta(t, 0.4082, engagementVariance(posts), 1e-4)

	posts = weeklyPosts(4, 0, 0)
	posts[3].Likes = 1000
	assert.Equal(t, 1.0, engagementVariance(posts))
}

func TestEvaluate_SurfacesLeafFindings(t *testing.T) {
	posts := weeklyPosts(6, 1000, 10)
	profile := models.Profile{Platform: "Instagram", FollowerCount: 10_000, FollowingCount: 400}

	pattern := &mockPatternAnalyzer{}
	pattern.On("Analyze", posts, models.PlatformInstagram).Return(&engagement.Result{
		PatternScore:           2.5,
		RedFlags:               []string{"flag one", "flag two", "flag three", "flag four"},
		AuthenticityIndicators: []string{},
	}).Once()

	quality := &mockContentAnalyzer{}
	quality.On("Analyze", posts, models.PlatformInstagram).Return(&content.Result{
		QualityScore:      8.5,
		ContentFlags:      []string{"too salesy"},
		QualityIndicators: []string{"nice", "kind", "true"},
		HashtagAnalysis:   content.HashtagAnalysis{AvgHashtagCount: 18},
	}).Once()

	a := NewAnalyzer(WithClock(fixedClock), WithPatternAnalyzer(pattern), WithContentAnalyzer(quality))
	report := a.Evaluate(profile, posts)

	pattern.AssertExpectations(t)
	quality.AssertExpectations(t)

	assert.Contains(t, report.Insights, "🚩 flag one")
	assert.Contains(t, report.Insights, "🚩 flag three")
	assert.NotContains(t, report.Insights, "🚩 flag four")
	assert.Contains(t, report.Insights, "📊 Concerning engagement patterns detected - possible artificial inflation")
	assert.Contains(t, report.Insights, "⚠️ too salesy")
	assert.Contains(t, report.Insights, "✨ kind")
	assert.NotContains(t, report.Insights, "✨ true")
	assert.Contains(t, report.Insights, "📝 High-quality, authentic content with personal storytelling")
	assert.Contains(t, report.Insights, "#️⃣ Excessive hashtag usage may indicate spam-like behavior")
	assert.Equal(t, 2.5, report.EngagementPattern.PatternScore)
}

func TestEvaluate_RecoversFromLeafPanic(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock), WithPatternAnalyzer(panickingPatternAnalyzer{}))
	profile := models.Profile{Platform: models.PlatformYouTube, FollowerCount: 80_000, FollowingCount: 40}

	var report *Report
	require.NotPanics(t, func() {
		report = a.Evaluate(profile, weeklyPosts(5, 3000, 120))
	})
	assert.Equal(t, engagement.DefaultResult(), report.EngagementPattern)
	assertInRange(t, report.Score)
}

func TestEvaluate_DisabledAnalyzersUseFallback(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock), WithPatternAnalyzer(nil), WithContentAnalyzer(nil))
	posts := weeklyPosts(10, 500, 20)
	for i := 0; i < 6; i++ {
		posts[i].IsSponsored = true
	}

	report := a.Evaluate(models.Profile{Platform: models.PlatformInstagram, FollowerCount: 20_000, FollowingCount: 100}, posts)
	assert.Nil(t, report.EngagementPattern)
	assert.Nil(t, report.ContentQuality)
	assert.Equal(t, 4.0, report.Score.ContentAuthenticity)
	assert.Equal(t, 2.0, report.Score.SponsoredRatio)
}

func TestGenerateInsights_MatchesEvaluate(t *testing.T) {
	a := NewAnalyzer(WithClock(fixedClock))
	profile := models.Profile{Platform: models.PlatformInstagram, FollowerCount: 250_000, FollowingCount: 1_200}
	posts := weeklyPosts(10, 1000, 60)
	for i := range posts {
		posts[i].CreatedAt = fixedTime.Add(time.Duration(i) * time.Hour)
		posts[i].Caption = "Buy now! Limited time offer, use my code SAVE20. Link in bio. #ad"
	}

	report := a.Evaluate(profile, posts)
	assert.Equal(t, report.Insights, a.GenerateInsights(profile, report.Score, posts))
	assert.Contains(t, report.Insights, "🚩 Suspiciously consistent engagement (possible bot activity)")
	assert.Contains(t, report.Insights, "📸 Large Instagram following - check for engagement pod activity")
}

func TestInsights_PlatformNotes(t *testing.T) {
	a := NewAnalyzer()
	score := models.AuthenticityScore{OverallScore: 6.5, EngagementQuality: 6, ContentAuthenticity: 6,
		SponsoredRatio: 6, FollowerAuthenticity: 6, ConsistencyScore: 4.5}

	twitter := a.GenerateInsights(models.Profile{Platform: models.PlatformTwitter, EngagementRate: floatPtr(12)}, score, nil)
	assert.Contains(t, twitter, "🐦 Unusually high Twitter engagement - verify authenticity")

	tiktok := a.GenerateInsights(models.Profile{Platform: models.PlatformTikTok}, score, nil)
	assert.Contains(t, tiktok, "🎵 Inconsistent TikTok posting pattern detected")

	youtube := a.GenerateInsights(models.Profile{Platform: models.PlatformYouTube}, score, nil)
	assert.Equal(t, []string{"🟡 Generally authentic with some areas for improvement"}, youtube)
}

func TestGenerateRecommendations(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name  string
		score models.AuthenticityScore
		want  []string
	}{
		{
			name:  "trustworthy",
			score: models.AuthenticityScore{OverallScore: 8.7, EngagementQuality: 9, SponsoredRatio: 9, FollowerAuthenticity: 9},
			want: []string{
				"✅ This influencer appears highly trustworthy for partnerships",
				"💡 Consider long-term collaboration opportunities",
			},
		},
		{
			name:  "cautious",
			score: models.AuthenticityScore{OverallScore: 4.2, EngagementQuality: 6, SponsoredRatio: 4, FollowerAuthenticity: 6},
			want: []string{
				"⚠️ Proceed with caution - request additional verification",
				"💡 Consider smaller test campaigns first",
				"📝 Request disclosure of recent brand partnerships",
			},
		},
		{
			name:  "high risk",
			score: models.AuthenticityScore{OverallScore: 2.1, EngagementQuality: 2, SponsoredRatio: 2, FollowerAuthenticity: 2},
			want: []string{
				"❌ High risk - not recommended for partnerships",
				"💡 Look for alternative influencers with better authenticity scores",
				"🔍 Verify audience quality and engagement authenticity",
				"📝 Request disclosure of recent brand partnerships",
				"👥 Audit follower quality using third-party tools",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.GenerateRecommendations(models.Profile{}, tt.score))
		})
	}
}
