// Package engagement detects inorganic engagement from the raw like, comment
// and share counts of a window of posts.
package engagement

import (
	"fmt"
	"math"

	"deinfluencer/internal/models"
	"deinfluencer/internal/stats"

	"github.com/sirupsen/logrus"
)

// MinPosts is the smallest sample pattern detection runs on
const MinPosts = 3

// Analyzer scores engagement patterns. It holds no mutable state and is safe
// for concurrent use.
type Analyzer struct {
	log logrus.FieldLogger
}

// NewAnalyzer creates a new engagement pattern analyzer
func NewAnalyzer(log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{log: log.WithField("component", "engagement")}
}

// metrics is the per-post view every sub-analysis works from
type metrics struct {
	total       float64 // likes + 3*comments + 2*shares
	ratio       float64 // comments / max(likes, 1)
	isSponsored bool
}

func extractMetrics(posts []models.Post) []metrics {
	out := make([]metrics, len(posts))
	for i, p := range posts {
		likes := float64(max(p.Likes, 0))
		comments := float64(max(p.Comments, 0))
		shares := float64(max(p.Shares, 0))
		out[i] = metrics{
			total:       likes + comments*3 + shares*2,
			ratio:       comments / math.Max(likes, 1),
			isSponsored: p.IsSponsored,
		}
	}
	return out
}

func totals(data []metrics) []float64 {
	xs := make([]float64, len(data))
	for i, m := range data {
		xs[i] = m.total
	}
	return xs
}

// Analyze runs every pattern check over posts. It never fails: fewer than
// MinPosts posts, or any internal failure, yields DefaultResult.
func (a *Analyzer) Analyze(posts []models.Post, platform models.Platform) (result *Result) {
	if len(posts) < MinPosts {
		return DefaultResult()
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{
				"platform": platform,
				"posts":    len(posts),
				"panic":    r,
			}).Warn("engagement pattern analysis failed, using defaults")
			result = DefaultResult()
		}
	}()

	th := thresholdsFor(platform)
	data := extractMetrics(posts)

	variance := analyzeVariance(data, th)
	spikes := detectSpikes(data, th)
	ratios := analyzeRatios(data, th)
	timing := analyzeTiming(posts)
	consistency := analyzeConsistency(data)

	score := variance.Score*0.25 +
		spikes.Score*0.25 +
		ratios.Score*0.20 +
		timing.Score*0.15 +
		consistency.Score*0.15

	return &Result{
		PatternScore:           stats.Round2(stats.ClampScore(score)),
		VarianceAnalysis:       variance,
		SpikeAnalysis:          spikes,
		RatioAnalysis:          ratios,
		TimingAnalysis:         timing,
		ConsistencyAnalysis:    consistency,
		RedFlags:               redFlags(variance, spikes, ratios, timing),
		AuthenticityIndicators: indicators(variance, ratios, timing),
	}
}

// analyzeVariance scores the coefficient of variation of weighted engagement.
// Moderate spread reads as a real audience; too little or too much does not.
func analyzeVariance(data []metrics, th thresholds) VarianceAnalysis {
	if len(data) < MinPosts {
		return VarianceAnalysis{Score: 5.0, Variance: 0.5}
	}

	xs := totals(data)
	mean := stats.Mean(xs)
	if mean == 0 {
		return VarianceAnalysis{Score: 3.0, Variance: 0, IsSuspicious: true}
	}

	std := stats.StdDev(xs)
	cov := std / mean

	var score float64
	switch {
	case cov >= 0.2 && cov <= th.NormalVariance:
		score = 8.5
	case cov < 0.1:
		score = 3.0
	case cov > th.NormalVariance*2:
		score = 4.0
	default:
		score = 6.0
	}

	return VarianceAnalysis{
		Score:          score,
		Variance:       cov,
		IsSuspicious:   cov < 0.1 || cov > th.NormalVariance*2,
		MeanEngagement: mean,
		StdEngagement:  std,
	}
}

// detectSpikes counts posts whose engagement z-score exceeds the platform multiplier
func detectSpikes(data []metrics, th thresholds) SpikeAnalysis {
	if len(data) < 5 {
		return SpikeAnalysis{Score: 7.0, SuspiciousSpikes: []Spike{}}
	}

	xs := totals(data)
	zs, ok := stats.ZScores(xs)
	if !ok {
		return SpikeAnalysis{Score: 5.0, SuspiciousSpikes: []Spike{}}
	}

	spikes := []Spike{}
	organic := 0
	var severity float64
	for i, z := range zs {
		if math.Abs(z) <= th.SpikeMultiplier {
			continue
		}
		spikes = append(spikes, Spike{
			PostIndex:   i,
			Engagement:  xs[i],
			ZScore:      math.Abs(z),
			IsSponsored: data[i].isSponsored,
		})
		severity += math.Abs(z)
		if !data[i].isSponsored {
			organic++
		}
	}

	ratio := float64(len(spikes)) / float64(len(data))

	var score float64
	switch {
	case ratio == 0:
		score = 9.0
	case ratio <= 0.1:
		score = 7.5
	case ratio <= 0.2:
		score = 5.0
	default:
		score = 2.0
	}

	// Spikes on organic posts are harder to explain than a boosted sponsored post.
	if float64(organic) > float64(len(spikes))*0.7 {
		score *= 0.8
	}

	analysis := SpikeAnalysis{
		Score:            score,
		SpikesDetected:   len(spikes),
		SpikeRatio:       ratio,
		SuspiciousSpikes: spikes,
	}
	if len(spikes) > 0 {
		analysis.AvgSpikeSeverity = severity / float64(len(spikes))
	}
	return analysis
}

// analyzeRatios compares the mean comment/like ratio with the platform norm
func analyzeRatios(data []metrics, th thresholds) RatioAnalysis {
	if len(data) == 0 {
		return RatioAnalysis{Score: 5.0}
	}

	ratios := make([]float64, len(data))
	for i, m := range data {
		ratios[i] = m.ratio
	}
	avg := stats.Mean(ratios)
	expected := th.ExpectedCommentRatio

	var score float64
	switch {
	case avg < expected*0.5:
		score = 4.0
	case avg <= expected*3:
		score = 8.5
	default:
		score = 6.0
	}

	var variance float64
	if len(ratios) > 1 {
		variance = stats.Variance(ratios)
	}
	// Real audiences never comment at exactly the same rate on every post.
	if variance < 0.001 {
		score *= 0.7
	}

	return RatioAnalysis{
		Score:         score,
		AvgRatio:      avg,
		ExpectedRatio: expected,
		RatioVariance: variance,
		IsSuspicious:  avg < expected*0.3 || variance < 0.001,
	}
}

// analyzeTiming looks for clockwork posting intervals and night-time automation.
// Posts without a usable timestamp are skipped.
func analyzeTiming(posts []models.Post) TimingAnalysis {
	if len(posts) < 5 {
		return TimingAnalysis{Score: 7.0, PatternDetected: TimingInsufficientData}
	}

	var hours, intervals []float64
	var prev *models.Post
	for i := range posts {
		p := &posts[i]
		if !p.HasTimestamp() {
			continue
		}
		hours = append(hours, float64(p.CreatedAt.Hour()))
		if prev != nil {
			intervals = append(intervals, math.Abs(p.CreatedAt.Sub(prev.CreatedAt).Hours()))
		}
		prev = p
	}

	if len(hours) == 0 {
		return TimingAnalysis{Score: 5.0, PatternDetected: TimingParseError}
	}

	analysis := TimingAnalysis{HourVariance: stats.Variance(hours)}

	switch {
	case len(intervals) == 0:
		analysis.Score = 5.0
		analysis.PatternDetected = TimingNoIntervals
	case len(intervals) > 3:
		avg := stats.Mean(intervals)
		analysis.IntervalVariance = stats.Variance(intervals)
		analysis.AvgIntervalHours = avg

		cov := stats.StdDev(intervals) / math.Max(avg, 1)
		switch {
		case cov < 0.1:
			analysis.Score = 3.0
			analysis.PatternDetected = TimingAutomatedRegular
		case cov > 2.0:
			analysis.Score = 6.0
			analysis.PatternDetected = TimingIrregular
		default:
			analysis.Score = 8.0
			analysis.PatternDetected = TimingNatural
		}
	default:
		analysis.IntervalVariance = stats.Variance(intervals)
		analysis.AvgIntervalHours = stats.Mean(intervals)
		analysis.Score = 7.0
		analysis.PatternDetected = TimingInsufficientIntervals
	}

	night := 0
	for _, h := range hours {
		if h >= 3 && h <= 6 {
			night++
		}
	}
	analysis.NightPostRatio = float64(night) / float64(len(hours))
	if float64(night) > float64(len(hours))*0.5 {
		analysis.Score *= 0.8
	}

	return analysis
}

// analyzeConsistency compares mean engagement of sponsored and organic posts
func analyzeConsistency(data []metrics) ConsistencyAnalysis {
	if len(data) < MinPosts {
		return ConsistencyAnalysis{Score: 7.0, Consistency: ConsistencyInsufficientData}
	}

	var sponsored, organic []float64
	for _, m := range data {
		if m.isSponsored {
			sponsored = append(sponsored, m.total)
		} else {
			organic = append(organic, m.total)
		}
	}
	if len(sponsored) == 0 || len(organic) == 0 {
		return ConsistencyAnalysis{Score: 7.0, Consistency: ConsistencySingleType}
	}

	analysis := ConsistencyAnalysis{
		SponsoredAvg: stats.Mean(sponsored),
		OrganicAvg:   stats.Mean(organic),
	}

	// Zero organic engagement makes the ratio unbounded; treat it as inflated.
	ratio := math.Inf(1)
	if analysis.OrganicAvg > 0 {
		ratio = analysis.SponsoredAvg / analysis.OrganicAvg
		analysis.EngagementRatio = &ratio
	}

	switch {
	case ratio > 3.0:
		analysis.Score = 3.0
		analysis.Consistency = ConsistencySponsoredInflated
	case ratio > 1.5:
		analysis.Score = 5.0
		analysis.Consistency = ConsistencySponsoredHigher
	case ratio < 0.3:
		analysis.Score = 6.0
		analysis.Consistency = ConsistencyOrganicHigher
	default:
		analysis.Score = 8.0
		analysis.Consistency = ConsistencyBalanced
	}
	return analysis
}

func redFlags(variance VarianceAnalysis, spikes SpikeAnalysis, ratios RatioAnalysis, timing TimingAnalysis) []string {
	flags := []string{}

	if variance.IsSuspicious {
		if variance.Variance < 0.1 {
			flags = append(flags, "Suspiciously consistent engagement (possible bot activity)")
		} else {
			flags = append(flags, "Extremely inconsistent engagement patterns")
		}
	}
	if spikes.SpikeRatio > 0.2 {
		flags = append(flags, fmt.Sprintf("High number of engagement spikes (%d spikes detected)", spikes.SpikesDetected))
	}
	if ratios.IsSuspicious {
		flags = append(flags, "Unusual comment-to-like ratios (possible fake engagement)")
	}
	if timing.PatternDetected == TimingAutomatedRegular {
		flags = append(flags, "Suspiciously regular posting intervals (possible automation)")
	}
	if timing.NightPostRatio > 0.5 {
		flags = append(flags, "High frequency of posts during unusual hours")
	}
	return flags
}

func indicators(variance VarianceAnalysis, ratios RatioAnalysis, timing TimingAnalysis) []string {
	out := []string{}

	if variance.Variance >= 0.2 && variance.Variance <= 0.6 {
		out = append(out, "Natural variation in engagement levels")
	}
	if ratios.AvgRatio >= ratios.ExpectedRatio*0.7 {
		out = append(out, "Healthy comment-to-like ratios")
	}
	if timing.PatternDetected == TimingNatural {
		out = append(out, "Natural posting time patterns")
	}
	return out
}
