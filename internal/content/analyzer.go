// Package content scores caption text for signs of authentic, personal
// writing versus promotional or templated content.
package content

import (
	"math"
	"strings"

	"deinfluencer/internal/models"
	"deinfluencer/internal/stats"

	"github.com/sirupsen/logrus"
)

// Analyzer scores caption quality. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	log logrus.FieldLogger
}

// NewAnalyzer creates a new content quality analyzer
func NewAnalyzer(log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{log: log.WithField("component", "content")}
}

// Analyze scores the captions of posts. Posts without caption text are
// ignored; if none remain, or analysis fails, DefaultResult is returned.
func (a *Analyzer) Analyze(posts []models.Post, platform models.Platform) (result *Result) {
	if len(posts) == 0 {
		return DefaultResult()
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.WithFields(logrus.Fields{
				"platform": platform,
				"posts":    len(posts),
				"panic":    r,
			}).Warn("content quality analysis failed, using defaults")
			result = DefaultResult()
		}
	}()

	texts := extractTexts(posts)
	if len(texts) == 0 {
		return DefaultResult()
	}

	authenticity := analyzeAuthenticity(texts)
	spam := analyzeSpam(texts)
	diversity := analyzeDiversity(texts)
	hashtags := analyzeHashtags(posts, platform)
	language := analyzeLanguage(texts)

	score := authenticity.Score*0.30 +
		spam.Score*0.25 +
		diversity.Score*0.20 +
		hashtags.Score*0.15 +
		language.Score*0.10

	return &Result{
		QualityScore:         stats.Round2(stats.ClampScore(score)),
		AuthenticityAnalysis: authenticity,
		SpamAnalysis:         spam,
		DiversityAnalysis:    diversity,
		HashtagAnalysis:      hashtags,
		LanguageAnalysis:     language,
		SentimentAnalysis:    analyzeSentiment(posts),
		ContentFlags:         contentFlags(authenticity, spam, hashtags),
		QualityIndicators:    qualityIndicators(authenticity, diversity, language),
	}
}

func extractTexts(posts []models.Post) []string {
	var texts []string
	for _, p := range posts {
		if cleaned := cleanText(p.Caption); cleaned != "" {
			texts = append(texts, cleaned)
		}
	}
	return texts
}

func analyzeAuthenticity(texts []string) AuthenticityAnalysis {
	if len(texts) == 0 {
		return AuthenticityAnalysis{Score: 5.0}
	}

	var a AuthenticityAnalysis
	words := 0
	for _, text := range texts {
		words += len(strings.Fields(text))
		a.PersonalMatches += countMatches(text, personalPhrases)
		a.StorytellingMatches += countMatches(text, storytellingPhrases)
		a.EmotionMatches += countMatches(text, emotionPhrases)
	}

	n := float64(len(texts))
	a.AvgWordsPerPost = float64(words) / n
	a.PersonalScore = math.Min(10, float64(a.PersonalMatches)/n*5)
	a.StorytellingScore = math.Min(10, float64(a.StorytellingMatches)/n*4)
	a.EmotionScore = math.Min(10, float64(a.EmotionMatches)/n*6)

	score := a.PersonalScore*0.4 + a.StorytellingScore*0.3 + a.EmotionScore*0.3
	// Long captions read as more personal.
	if a.AvgWordsPerPost > 50 {
		score *= 1.1
	}
	a.Score = math.Min(10, score)
	return a
}

func analyzeSpam(texts []string) SpamAnalysis {
	if len(texts) == 0 {
		return SpamAnalysis{Score: 7.0}
	}

	var s SpamAnalysis
	for _, text := range texts {
		s.PromotionalMatches += countMatches(text, promotionalPhrases)
		s.GenericMatches += countMatches(text, genericPhrases)
		s.BaitMatches += countMatches(text, engagementBaitPhrases)
	}

	n := float64(len(texts))
	s.PromotionalRatio = float64(s.PromotionalMatches) / n
	s.PromotionalPenalty = math.Min(5.0, s.PromotionalRatio*3)
	s.GenericPenalty = math.Min(3.0, float64(s.GenericMatches)/n*2)
	s.BaitPenalty = math.Min(2.0, float64(s.BaitMatches)/n*1.5)
	s.Score = math.Max(0, 10-s.PromotionalPenalty-s.GenericPenalty-s.BaitPenalty)
	return s
}

func analyzeDiversity(texts []string) DiversityAnalysis {
	if len(texts) < 2 {
		return DiversityAnalysis{Score: 7.0, Uniqueness: 1.0, VocabularyDiversity: 1.0}
	}

	var similarities []float64
	for i := range texts {
		for j := i + 1; j < len(texts); j++ {
			similarities = append(similarities, jaccard(texts[i], texts[j]))
		}
	}

	d := DiversityAnalysis{AvgSimilarity: stats.Mean(similarities)}
	d.Uniqueness = 1 - d.AvgSimilarity

	unique := make(map[string]struct{})
	for _, text := range texts {
		for _, w := range strings.Fields(text) {
			unique[w] = struct{}{}
			d.TotalWordCount++
		}
	}
	d.UniqueWordCount = len(unique)

	d.VocabularyDiversity = 1.0
	if d.TotalWordCount > 0 {
		d.VocabularyDiversity = float64(d.UniqueWordCount) / float64(d.TotalWordCount)
	}

	d.Score = math.Min(10, (d.Uniqueness*0.6+d.VocabularyDiversity*0.4)*10)
	return d
}

// analyzeHashtags compares hashtags per captioned post to the platform's
// optimal band and penalizes leaning on the same tag everywhere
func analyzeHashtags(posts []models.Post, platform models.Platform) HashtagAnalysis {
	var perPost []float64
	counts := make(map[string]int)
	var order []string
	total := 0

	for _, p := range posts {
		if p.Caption == "" {
			continue
		}
		tags := extractHashtags(p.Caption)
		perPost = append(perPost, float64(len(tags)))
		for _, tag := range tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
			total++
		}
	}

	if len(perPost) == 0 {
		return HashtagAnalysis{Score: 7.0}
	}

	h := HashtagAnalysis{
		AvgHashtagCount: stats.Mean(perPost),
		UniqueHashtags:  len(counts),
		TotalHashtags:   total,
	}

	band := patternFor(platform)
	var countScore float64
	switch {
	case h.AvgHashtagCount < band.HashtagMin:
		countScore = math.Max(5.0, 10-(band.HashtagMin-h.AvgHashtagCount)*0.5)
	case h.AvgHashtagCount > band.HashtagMax:
		countScore = math.Max(3.0, 10-(h.AvgHashtagCount-band.HashtagMax)*0.3)
	default:
		countScore = 10
	}

	h.HashtagDiversity = 10
	if total > 0 {
		// ties go to the tag seen first
		top := HashtagCount{}
		for _, tag := range order {
			if counts[tag] > top.Count {
				top = HashtagCount{Tag: tag, Count: counts[tag]}
			}
		}
		h.MostUsedHashtag = &top

		h.HashtagDiversity = math.Min(10, float64(len(counts))/float64(total)*10)
		if float64(top.Count) > float64(len(posts))*0.8 {
			h.HashtagDiversity *= 0.6
		}
	}

	h.Score = countScore*0.6 + h.HashtagDiversity*0.4
	return h
}

func analyzeLanguage(texts []string) LanguageAnalysis {
	if len(texts) == 0 {
		return LanguageAnalysis{Score: 7.0, Readability: 5.0}
	}

	var l LanguageAnalysis
	syllables := 0
	for _, text := range texts {
		l.TotalSentences += countSentences(text)
		l.TotalWords += len(strings.Fields(text))
		syllables += countSyllables(text)
	}
	if l.TotalSentences == 0 || l.TotalWords == 0 {
		return LanguageAnalysis{Score: 5.0, Readability: 5.0}
	}

	l.AvgSentenceLength = float64(l.TotalWords) / float64(l.TotalSentences)
	l.AvgSyllablesPerWord = float64(syllables) / float64(l.TotalWords)
	l.Readability = stats.Clamp(206.835-1.015*l.AvgSentenceLength-84.6*l.AvgSyllablesPerWord, 0, 100)

	switch {
	case l.Readability >= 50 && l.Readability <= 80:
		l.Score = 9.0
	case l.Readability >= 30 && l.Readability <= 90:
		l.Score = 7.0
	default:
		l.Score = 5.0
	}
	return l
}

func contentFlags(authenticity AuthenticityAnalysis, spam SpamAnalysis, hashtags HashtagAnalysis) []string {
	flags := []string{}

	if authenticity.Score < 4.0 {
		flags = append(flags, "Low authenticity indicators in content")
	}
	if spam.PromotionalRatio > 0.3 {
		flags = append(flags, "High promotional content ratio")
	}
	if spam.BaitMatches > 0 {
		flags = append(flags, "Engagement bait tactics detected")
	}
	if hashtags.AvgHashtagCount > 20 {
		flags = append(flags, "Excessive hashtag usage")
	}
	return flags
}

func qualityIndicators(authenticity AuthenticityAnalysis, diversity DiversityAnalysis, language LanguageAnalysis) []string {
	out := []string{}

	if authenticity.PersonalScore > 5.0 {
		out = append(out, "Personal and relatable content")
	}
	if authenticity.StorytellingScore > 4.0 {
		out = append(out, "Good storytelling elements")
	}
	if diversity.Uniqueness > 0.7 {
		out = append(out, "Diverse and unique content")
	}
	if language.Readability > 60 {
		out = append(out, "Good readability and language quality")
	}
	return out
}
