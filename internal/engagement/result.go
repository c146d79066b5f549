package engagement

// VarianceAnalysis describes how dispersed weighted engagement is across posts
type VarianceAnalysis struct {
	Score          float64 `json:"score"`
	Variance       float64 `json:"variance"` // coefficient of variation
	IsSuspicious   bool    `json:"is_suspicious"`
	MeanEngagement float64 `json:"mean_engagement"`
	StdEngagement  float64 `json:"std_engagement"`
}

// Spike is a post whose engagement z-score exceeded the platform multiplier
type Spike struct {
	PostIndex   int     `json:"post_index"`
	Engagement  float64 `json:"engagement"`
	ZScore      float64 `json:"z_score"`
	IsSponsored bool    `json:"is_sponsored"`
}

// SpikeAnalysis summarizes outlier posts
type SpikeAnalysis struct {
	Score            float64 `json:"score"`
	SpikesDetected   int     `json:"spikes_detected"`
	SpikeRatio       float64 `json:"spike_ratio"`
	SuspiciousSpikes []Spike `json:"suspicious_spikes"`
	AvgSpikeSeverity float64 `json:"avg_spike_severity"`
}

// RatioAnalysis compares comment/like ratios against the platform norm
type RatioAnalysis struct {
	Score         float64 `json:"score"`
	AvgRatio      float64 `json:"avg_ratio"`
	ExpectedRatio float64 `json:"expected_ratio"`
	RatioVariance float64 `json:"ratio_variance"`
	IsSuspicious  bool    `json:"is_suspicious"`
}

// TimingPattern classifies the posting cadence
type TimingPattern string

const (
	TimingAutomatedRegular      TimingPattern = "automated_regular"
	TimingIrregular             TimingPattern = "irregular"
	TimingNatural               TimingPattern = "natural"
	TimingInsufficientData      TimingPattern = "insufficient_data"
	TimingInsufficientIntervals TimingPattern = "insufficient_intervals"
	TimingNoIntervals           TimingPattern = "no_intervals"
	TimingParseError            TimingPattern = "parse_error"
)

// TimingAnalysis describes posting hours and intervals
type TimingAnalysis struct {
	Score            float64       `json:"score"`
	PatternDetected  TimingPattern `json:"pattern_detected"`
	HourVariance     float64       `json:"hour_variance"`
	IntervalVariance float64       `json:"interval_variance"`
	AvgIntervalHours float64       `json:"avg_interval_hours"`
	NightPostRatio   float64       `json:"night_post_ratio"`
}

// Consistency labels for sponsored versus organic engagement
const (
	ConsistencySponsoredInflated = "sponsored_inflated"
	ConsistencySponsoredHigher   = "sponsored_higher"
	ConsistencyOrganicHigher     = "organic_higher"
	ConsistencyBalanced          = "balanced"
	ConsistencySingleType        = "single_type"
	ConsistencyInsufficientData  = "insufficient_data"
)

// ConsistencyAnalysis compares sponsored and organic engagement
type ConsistencyAnalysis struct {
	Score        float64 `json:"score"`
	Consistency  string  `json:"consistency"`
	SponsoredAvg float64 `json:"sponsored_avg"`
	OrganicAvg   float64 `json:"organic_avg"`
	// EngagementRatio is sponsored/organic; nil when organic engagement is zero
	EngagementRatio *float64 `json:"engagement_ratio,omitempty"`
}

// Result is the output of an engagement pattern analysis
type Result struct {
	PatternScore           float64             `json:"pattern_score"`
	VarianceAnalysis       VarianceAnalysis    `json:"variance_analysis"`
	SpikeAnalysis          SpikeAnalysis       `json:"spike_analysis"`
	RatioAnalysis          RatioAnalysis       `json:"ratio_analysis"`
	TimingAnalysis         TimingAnalysis      `json:"timing_analysis"`
	ConsistencyAnalysis    ConsistencyAnalysis `json:"consistency_analysis"`
	RedFlags               []string            `json:"red_flags"`
	AuthenticityIndicators []string            `json:"authenticity_indicators"`
}

// DefaultResult is returned when there are too few posts or analysis fails
func DefaultResult() *Result {
	return &Result{
		PatternScore:           5.0,
		VarianceAnalysis:       VarianceAnalysis{Score: 5.0, Variance: 0.5},
		SpikeAnalysis:          SpikeAnalysis{Score: 5.0, SuspiciousSpikes: []Spike{}},
		RatioAnalysis:          RatioAnalysis{Score: 5.0, AvgRatio: 0.05},
		TimingAnalysis:         TimingAnalysis{Score: 5.0, PatternDetected: TimingInsufficientData},
		ConsistencyAnalysis:    ConsistencyAnalysis{Score: 5.0, Consistency: ConsistencyInsufficientData},
		RedFlags:               []string{},
		AuthenticityIndicators: []string{},
	}
}
