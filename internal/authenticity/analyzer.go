// Package authenticity fuses engagement patterns, caption quality and
// account-level signals into a single authenticity score with insights and
// recommendations.
package authenticity

import (
	"time"

	"deinfluencer/internal/content"
	"deinfluencer/internal/engagement"
	"deinfluencer/internal/models"
	"deinfluencer/internal/stats"

	"github.com/sirupsen/logrus"
)

// PatternAnalyzer scores engagement patterns over a window of posts
type PatternAnalyzer interface {
	Analyze(posts []models.Post, platform models.Platform) *engagement.Result
}

// ContentAnalyzer scores the captions of a window of posts
type ContentAnalyzer interface {
	Analyze(posts []models.Post, platform models.Platform) *content.Result
}

// Analyzer computes authenticity scores. It is safe for concurrent use.
type Analyzer struct {
	log     logrus.FieldLogger
	now     func() time.Time
	pattern PatternAnalyzer
	content ContentAnalyzer
}

type options struct {
	log        logrus.FieldLogger
	now        func() time.Time
	pattern    PatternAnalyzer
	content    ContentAnalyzer
	patternSet bool
	contentSet bool
}

// Option configures an Analyzer
type Option func(*options)

// WithLogger sets the logger used for recovered failures
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock sets the source of AuthenticityScore.LastUpdated
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPatternAnalyzer replaces the engagement pattern analyzer. Passing nil
// disables pattern analysis and engagement quality uses the rate alone.
func WithPatternAnalyzer(p PatternAnalyzer) Option {
	return func(o *options) {
		o.pattern = p
		o.patternSet = true
	}
}

// WithContentAnalyzer replaces the caption analyzer. Passing nil disables
// caption analysis and content authenticity uses the post-level fallback.
func WithContentAnalyzer(c ContentAnalyzer) Option {
	return func(o *options) {
		o.content = c
		o.contentSet = true
	}
}

// NewAnalyzer creates an Analyzer wired to the default leaf analyzers
func NewAnalyzer(opts ...Option) *Analyzer {
	o := options{
		log: logrus.StandardLogger(),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.patternSet {
		o.pattern = engagement.NewAnalyzer(o.log)
	}
	if !o.contentSet {
		o.content = content.NewAnalyzer(o.log)
	}

	return &Analyzer{
		log:     o.log.WithField("component", "authenticity"),
		now:     o.now,
		pattern: o.pattern,
		content: o.content,
	}
}

// Report is a full analysis: the composite score, its explanation, and the
// leaf results it was derived from
type Report struct {
	Score             models.AuthenticityScore `json:"authenticity_score"`
	Insights          []string                 `json:"insights"`
	Recommendations   []string                 `json:"recommendations"`
	EngagementPattern *engagement.Result       `json:"engagement_pattern,omitempty"`
	ContentQuality    *content.Result          `json:"content_quality,omitempty"`
}

// AnalyzeAuthenticity scores profile against its recent posts
func (a *Analyzer) AnalyzeAuthenticity(profile models.Profile, posts []models.Post) models.AuthenticityScore {
	pattern, quality := a.leafAnalyses(profile, posts)
	return a.score(profile, posts, pattern, quality)
}

// Evaluate scores profile and explains the result, running each leaf
// analyzer once
func (a *Analyzer) Evaluate(profile models.Profile, posts []models.Post) *Report {
	pattern, quality := a.leafAnalyses(profile, posts)
	score := a.score(profile, posts, pattern, quality)

	a.log.WithFields(logrus.Fields{
		"username": profile.Username,
		"platform": profile.Platform,
		"posts":    len(posts),
		"overall":  score.OverallScore,
	}).Debug("authenticity analysis complete")

	return &Report{
		Score:             score,
		Insights:          a.insights(profile, score, pattern, quality),
		Recommendations:   a.GenerateRecommendations(profile, score),
		EngagementPattern: pattern,
		ContentQuality:    quality,
	}
}

// leafAnalyses runs the pattern and caption analyzers. Both are skipped when
// there are no posts, and either is nil when disabled.
func (a *Analyzer) leafAnalyses(profile models.Profile, posts []models.Post) (*engagement.Result, *content.Result) {
	if len(posts) == 0 {
		return nil, nil
	}
	platform := profile.Platform.Normalize()

	var pattern *engagement.Result
	if a.pattern != nil {
		pattern = a.runPattern(posts, platform)
	}
	var quality *content.Result
	if a.content != nil {
		quality = a.runContent(posts, platform)
	}
	return pattern, quality
}

func (a *Analyzer) runPattern(posts []models.Post, platform models.Platform) (result *engagement.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{"platform": platform, "panic": r}).
				Warn("engagement pattern analyzer failed, using defaults")
			result = engagement.DefaultResult()
		}
	}()
	if result = a.pattern.Analyze(posts, platform); result == nil {
		result = engagement.DefaultResult()
	}
	return result
}

func (a *Analyzer) runContent(posts []models.Post, platform models.Platform) (result *content.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{"platform": platform, "panic": r}).
				Warn("content analyzer failed, using defaults")
			result = content.DefaultResult()
		}
	}()
	if result = a.content.Analyze(posts, platform); result == nil {
		result = content.DefaultResult()
	}
	return result
}

func (a *Analyzer) score(profile models.Profile, posts []models.Post, pattern *engagement.Result, quality *content.Result) models.AuthenticityScore {
	b := benchmarksFor(profile.Platform)

	engagementScore := a.guard("engagement_quality", func() float64 {
		return engagementQuality(effectiveEngagementRate(profile, posts), b.EngagementRate, pattern)
	})
	contentScore := a.guard("content_authenticity", func() float64 {
		return contentAuthenticity(profile, posts, quality)
	})
	sponsoredScore := a.guard("sponsored_ratio", func() float64 {
		return sponsoredRatioScore(posts)
	})
	followerScore := a.guard("follower_authenticity", func() float64 {
		return followerAuthenticity(profile, b.FollowerRatio)
	})
	consistency := a.guard("consistency_score", func() float64 {
		return consistencyScore(posts, b.PostsPerWeek)
	})

	overall := engagementScore*0.25 +
		contentScore*0.25 +
		sponsoredScore*0.20 +
		followerScore*0.20 +
		consistency*0.10

	return models.AuthenticityScore{
		OverallScore:         stats.Round2(stats.ClampScore(overall)),
		EngagementQuality:    stats.Round2(engagementScore),
		ContentAuthenticity:  stats.Round2(contentScore),
		SponsoredRatio:       stats.Round2(sponsoredScore),
		FollowerAuthenticity: stats.Round2(followerScore),
		ConsistencyScore:     stats.Round2(consistency),
		LastUpdated:          a.now(),
	}
}

// guard runs a sub-score computation, converting a panic or a non-finite
// result into the neutral score
func (a *Analyzer) guard(name string, fn func() float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{"score": name, "panic": r}).
				Warn("sub-score computation failed, using neutral score")
			score = neutralScore
		}
	}()
	return stats.ClampScore(stats.Finite(fn(), neutralScore))
}
