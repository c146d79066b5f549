package content

// AuthenticityAnalysis counts personal, storytelling and emotional language
type AuthenticityAnalysis struct {
	Score               float64 `json:"score"`
	PersonalScore       float64 `json:"personal_score"`
	StorytellingScore   float64 `json:"storytelling_score"`
	EmotionScore        float64 `json:"emotion_score"`
	AvgWordsPerPost     float64 `json:"avg_words_per_post"`
	PersonalMatches     int     `json:"personal_matches"`
	StorytellingMatches int     `json:"storytelling_matches"`
	EmotionMatches      int     `json:"emotion_matches"`
}

// SpamAnalysis penalizes promotional, generic and engagement-bait language
type SpamAnalysis struct {
	Score              float64 `json:"score"`
	PromotionalPenalty float64 `json:"promotional_penalty"`
	GenericPenalty     float64 `json:"generic_penalty"`
	BaitPenalty        float64 `json:"bait_penalty"`
	PromotionalMatches int     `json:"promotional_matches"`
	GenericMatches     int     `json:"generic_matches"`
	BaitMatches        int     `json:"bait_matches"`
	// PromotionalRatio is promotional matches per analyzed text
	PromotionalRatio float64 `json:"promotional_ratio"`
}

// DiversityAnalysis measures how different the posts are from each other
type DiversityAnalysis struct {
	Score               float64 `json:"score"`
	Uniqueness          float64 `json:"uniqueness"`
	VocabularyDiversity float64 `json:"vocabulary_diversity"`
	AvgSimilarity       float64 `json:"avg_similarity"`
	UniqueWordCount     int     `json:"unique_word_count"`
	TotalWordCount      int     `json:"total_word_count"`
}

// HashtagCount pairs a hashtag with how often it was used
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// HashtagAnalysis compares hashtag usage to the platform's optimal range
type HashtagAnalysis struct {
	Score            float64       `json:"score"`
	AvgHashtagCount  float64       `json:"avg_hashtag_count"`
	HashtagDiversity float64       `json:"hashtag_diversity"`
	UniqueHashtags   int           `json:"unique_hashtags"`
	TotalHashtags    int           `json:"total_hashtags"`
	MostUsedHashtag  *HashtagCount `json:"most_used_hashtag,omitempty"`
}

// LanguageAnalysis is a Flesch-style readability estimate
type LanguageAnalysis struct {
	Score               float64 `json:"score"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	Readability         float64 `json:"readability"`
	TotalWords          int     `json:"total_words"`
	TotalSentences      int     `json:"total_sentences"`
}

// Result is the output of a content quality analysis
type Result struct {
	QualityScore         float64              `json:"quality_score"`
	AuthenticityAnalysis AuthenticityAnalysis `json:"authenticity_analysis"`
	SpamAnalysis         SpamAnalysis         `json:"spam_analysis"`
	DiversityAnalysis    DiversityAnalysis    `json:"diversity_analysis"`
	HashtagAnalysis      HashtagAnalysis      `json:"hashtag_analysis"`
	LanguageAnalysis     LanguageAnalysis     `json:"language_analysis"`
	SentimentAnalysis    SentimentAnalysis    `json:"sentiment_analysis"`
	ContentFlags         []string             `json:"content_flags"`
	QualityIndicators    []string             `json:"quality_indicators"`
}

// DefaultResult is returned when there is no caption text or analysis fails
func DefaultResult() *Result {
	return &Result{
		QualityScore:         5.0,
		AuthenticityAnalysis: AuthenticityAnalysis{Score: 5.0},
		SpamAnalysis:         SpamAnalysis{Score: 7.0},
		DiversityAnalysis:    DiversityAnalysis{Score: 7.0, Uniqueness: 1.0, VocabularyDiversity: 1.0},
		HashtagAnalysis:      HashtagAnalysis{Score: 7.0},
		LanguageAnalysis:     LanguageAnalysis{Score: 7.0, Readability: 5.0},
		ContentFlags:         []string{},
		QualityIndicators:    []string{},
	}
}
