package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/weather-comfort-service/internal/decision"
	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// ContentSpec describes the reasoner-backed content screen. The fallback is
// the local keyword heuristic over rules.
func ContentSpec(timeout time.Duration, rules domain.KeywordRules) decision.Spec[string, domain.ModerationVerdict] {
	return decision.Spec[string, domain.ModerationVerdict]{
		Name:            "content",
		Timeout:         timeout,
		Temperature:     0.1,
		MaxOutputTokens: 200,
		Prompt:          contentPrompt,
		Parse:           parseContentVerdict,
		Fallback: func(content string, _ domain.DegradeCause) domain.ModerationVerdict {
			return domain.ScreenContent(content, rules)
		},
	}
}

func contentPrompt(content string) string {
	return fmt.Sprintf(`You are a content moderation system for a weather community website. Analyze the following user-generated content and determine if it should be allowed.

Consider these criteria:
1. Is it spam or promotional content?
2. Does it contain NSFW or inappropriate content?
3. Does it contain profanity or offensive language?
4. Does it contain harassment or hate speech?
5. Is it relevant to a weather or climate community?
6. Rate toxicity from 0 (not toxic) to 1 (very toxic).

Content to analyze:
%q

Respond ONLY with a JSON object in this exact format:
{
  "isAllowed": boolean,
  "reason": "brief explanation if not allowed",
  "confidence": number (0-1),
  "isSpam": boolean,
  "isNSFW": boolean,
  "isProfane": boolean,
  "isHarassment": boolean,
  "toxicityScore": number (0-1)
}`, content)
}

type contentAnswer struct {
	IsAllowed     *bool    `json:"isAllowed"`
	Reason        string   `json:"reason"`
	Confidence    *float64 `json:"confidence"`
	IsSpam        bool     `json:"isSpam"`
	IsNSFW        bool     `json:"isNSFW"`
	IsProfane     bool     `json:"isProfane"`
	IsHarassment  bool     `json:"isHarassment"`
	ToxicityScore float64  `json:"toxicityScore"`
}

func parseContentVerdict(raw string) decision.Result[domain.ModerationVerdict] {
	var a contentAnswer
	if err := decision.DecodeObject(raw, &a); err != nil {
		return decision.Malformed[domain.ModerationVerdict](err.Error())
	}
	if a.IsAllowed == nil {
		return decision.Malformed[domain.ModerationVerdict]("missing isAllowed")
	}

	confidence := domain.DefaultContentConfidence
	if a.Confidence != nil {
		confidence = decision.Clamp01(*a.Confidence)
	}
	v := domain.ModerationVerdict{
		Allowed:    *a.IsAllowed,
		Confidence: confidence,
		Flags: &domain.ContentFlags{
			Spam:       a.IsSpam,
			NSFW:       a.IsNSFW,
			Profane:    a.IsProfane,
			Harassment: a.IsHarassment,
			Toxicity:   decision.Clamp01(a.ToxicityScore),
		},
	}
	if !v.Allowed {
		v.Reason = strings.TrimSpace(a.Reason)
		if v.Reason == "" {
			v.Reason = "Content was flagged by moderation"
		}
	}
	return decision.Parsed(v)
}
