package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// rulesFile is the YAML shape of MODERATION_RULES_FILE:
//
//	spam: ["buy now", "click here"]
//	nsfw: ["nsfw"]
//	profanity: ["darn"]
//
// An omitted list keeps the built-in default.
type rulesFile struct {
	Spam      []string `yaml:"spam"`
	NSFW      []string `yaml:"nsfw"`
	Profanity []string `yaml:"profanity"`
}

// LoadModerationRules reads keyword lists from a YAML file. An empty path
// returns the built-in lists.
func LoadModerationRules(path string) (domain.KeywordRules, error) {
	rules := domain.DefaultKeywordRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.KeywordRules{}, fmt.Errorf("read MODERATION_RULES_FILE: %w", err)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.KeywordRules{}, fmt.Errorf("parse MODERATION_RULES_FILE: %w", err)
	}

	if f.Spam != nil {
		rules.Spam = f.Spam
	}
	if f.NSFW != nil {
		rules.NSFW = f.NSFW
	}
	if f.Profanity != nil {
		rules.Profanity = f.Profanity
	}
	return rules.Normalize(), nil
}
