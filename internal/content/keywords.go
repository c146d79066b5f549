package content

import "deinfluencer/internal/models"

// Phrase lists are matched as lower-case substrings of cleaned caption text.
var (
	promotionalPhrases = []string{
		"buy now", "limited time", "exclusive offer", "don't miss out",
		"click link", "swipe up", "dm for price", "link in bio",
		"use my code", "discount code", "promo code", "affiliate",
		"sponsored by", "paid partnership", "brand ambassador",
	}
	genericPhrases = []string{
		"amazing", "incredible", "unbelievable", "life-changing",
		"must have", "game changer", "obsessed", "literally dying",
		"can't even", "so blessed", "living my best life",
	}
	engagementBaitPhrases = []string{
		"like if you agree", "comment below", "tag a friend",
		"double tap", "follow for more", "turn on notifications",
		"what do you think", "let me know", "your thoughts",
	}

	personalPhrases = []string{
		"my family", "my kids", "my husband", "my wife", "my mom",
		"my dad", "growing up", "when i was", "learned that",
		"realized", "grateful for", "thankful", "appreciate",
	}
	storytellingPhrases = []string{
		"yesterday", "today", "last week", "remember when",
		"funny story", "happened to me", "experience",
		"journey", "struggle", "challenge", "overcome",
	}
	emotionPhrases = []string{
		"nervous", "excited", "scared", "proud", "disappointed",
		"surprised", "confused", "frustrated", "hopeful",
		"worried", "relieved", "overwhelmed",
	}
)

// platformPattern is the optimal hashtags-per-post band of a platform
type platformPattern struct {
	HashtagMin, HashtagMax float64
}

var platformPatterns = map[models.Platform]platformPattern{
	models.PlatformInstagram: {HashtagMin: 5, HashtagMax: 15},
	models.PlatformTwitter:   {HashtagMin: 1, HashtagMax: 3},
	models.PlatformTikTok:    {HashtagMin: 3, HashtagMax: 8},
	models.PlatformYouTube:   {HashtagMin: 0, HashtagMax: 5},
}

func patternFor(p models.Platform) platformPattern {
	if pp, ok := platformPatterns[p.Normalize()]; ok {
		return pp
	}
	return platformPatterns[models.PlatformInstagram]
}
