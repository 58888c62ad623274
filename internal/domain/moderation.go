package domain

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength    = 100
	MinContentLength = 5
	MaxContentLength = 2000

	// DefaultContentConfidence is used when a reasoner verdict omits one.
	DefaultContentConfidence = 0.8

	capsRatioThreshold = 0.7
	capsMinLength      = 20
	maxRepeatedRun     = 4
)

// ModerationVerdict is the outcome of validating one submitted field.
type ModerationVerdict struct {
	Allowed    bool          `json:"isAllowed" bson:"isAllowed"`
	Reason     string        `json:"reason,omitempty" bson:"reason,omitempty"`
	Confidence float64       `json:"confidence" bson:"confidence"`
	Flags      *ContentFlags `json:"details,omitempty" bson:"details,omitempty"`
}

// ContentFlags are the classification details of a content verdict.
type ContentFlags struct {
	Spam       bool    `json:"isSpam" bson:"isSpam"`
	NSFW       bool    `json:"isNSFW" bson:"isNSFW"`
	Profane    bool    `json:"isProfane" bson:"isProfane"`
	Harassment bool    `json:"isHarassment" bson:"isHarassment"`
	Toxicity   float64 `json:"toxicityScore" bson:"toxicityScore"`
}

func allow(confidence float64) ModerationVerdict {
	return ModerationVerdict{Allowed: true, Confidence: confidence}
}

func deny(reason string, confidence float64) ModerationVerdict {
	return ModerationVerdict{Reason: reason, Confidence: confidence}
}

var placeholderNames = map[string]struct{}{
	"test": {}, "admin": {}, "anonymous": {}, "user": {}, "name": {},
}

// ValidateName checks a display name. The length limit applies to the raw
// input, surrounding whitespace included.
func ValidateName(name string) ModerationVerdict {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return deny("Name cannot be empty", 1)
	case utf8.RuneCountInString(name) > MaxNameLength:
		return deny("Name too long (max 100 characters)", 1)
	}
	if _, ok := placeholderNames[strings.ToLower(trimmed)]; ok {
		return deny("Please use a real name", 0.7)
	}
	return allow(1)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var disposableDomains = map[string]struct{}{
	"tempmail.org": {}, "10minutemail.com": {}, "guerrillamail.com": {},
}

// ValidateEmail checks an optional email address. An empty address is allowed.
func ValidateEmail(email string) ModerationVerdict {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return allow(1)
	}
	if !emailPattern.MatchString(trimmed) {
		return deny("Invalid email format", 1)
	}
	domain := strings.ToLower(trimmed[strings.LastIndex(trimmed, "@")+1:])
	if _, ok := disposableDomains[domain]; ok {
		return deny("Temporary email addresses not allowed", 0.8)
	}
	return allow(1)
}

// ValidateContentStructure applies the local length checks that run before
// any content classification.
func ValidateContentStructure(content string) ModerationVerdict {
	trimmed := strings.TrimSpace(content)
	switch {
	case trimmed == "":
		return deny("Content cannot be empty", 1)
	case utf8.RuneCountInString(trimmed) < MinContentLength:
		return deny("Content too short", 1)
	case utf8.RuneCountInString(content) > MaxContentLength:
		return deny("Content too long (max 2000 characters)", 1)
	}
	return allow(1)
}

// KeywordRules are the phrase lists used by ScreenContent. Matching is a
// case-insensitive substring test.
type KeywordRules struct {
	Spam      []string
	NSFW      []string
	Profanity []string
}

// DefaultKeywordRules returns the built-in phrase lists.
func DefaultKeywordRules() KeywordRules {
	return KeywordRules{
		Spam: []string{
			"buy now", "click here", "free money", "urgent", "limited time",
			"act now", "call now", "earn money", "make money fast", "get rich",
			"guaranteed", "no questions asked", "risk free", "cash bonus",
			"credit card", "loan", "debt", "insurance", "pharmacy",
		},
		NSFW:      []string{"explicit", "adult content", "nsfw"},
		Profanity: []string{"fuck", "shit", "bitch", "asshole", "bastard"},
	}
}

// ScreenContent is the keyword and heuristic classifier used when no
// reasoner verdict is available.
func ScreenContent(content string, rules KeywordRules) ModerationVerdict {
	lower := strings.ToLower(content)

	switch {
	case containsAny(lower, rules.Spam):
		v := deny("Content appears to be spam", 0.8)
		v.Flags = &ContentFlags{Spam: true}
		return v
	case containsAny(lower, rules.NSFW):
		v := deny("Content contains inappropriate material", 0.9)
		v.Flags = &ContentFlags{NSFW: true}
		return v
	case containsAny(lower, rules.Profanity):
		v := deny("Content contains profanity", 0.9)
		v.Flags = &ContentFlags{Profane: true}
		return v
	case excessiveCaps(content):
		v := deny("Excessive use of capital letters", 0.6)
		v.Flags = &ContentFlags{Spam: true}
		return v
	case hasRepeatedRun(content):
		v := deny("Contains excessive repeated characters", 0.7)
		v.Flags = &ContentFlags{Spam: true}
		return v
	}

	v := allow(0.9)
	v.Flags = &ContentFlags{}
	return v
}

// Normalize lower-cases and de-duplicates the lists, dropping blanks.
func (r KeywordRules) Normalize() KeywordRules {
	return KeywordRules{
		Spam:      normalizeKeywords(r.Spam),
		NSFW:      normalizeKeywords(r.NSFW),
		Profanity: normalizeKeywords(r.Profanity),
	}
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func excessiveCaps(content string) bool {
	total := utf8.RuneCountInString(content)
	if total <= capsMinLength {
		return false
	}
	upper := 0
	for _, r := range content {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return float64(upper)/float64(total) > capsRatioThreshold
}

// hasRepeatedRun reports a run of five or more identical runes on one line.
func hasRepeatedRun(content string) bool {
	var prev rune
	run := 0
	for i, r := range content {
		if i > 0 && r == prev && r != '\n' {
			run++
			if run >= maxRepeatedRun {
				return true
			}
			continue
		}
		prev = r
		run = 0
	}
	return false
}
