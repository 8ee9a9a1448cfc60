package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ragbench/chunkbench/internal/core/domain"
	"github.com/ragbench/chunkbench/internal/core/merge"
	"github.com/ragbench/chunkbench/internal/core/split"
)

// Profile is the chunking and evaluation profile loaded from a YAML file.
// Every knob has a default, so an empty file (or no file at all) yields a
// usable profile; Validate is still fatal at startup when a provided value
// is out of range.
type Profile struct {
	Splitting    SplittingProfile    `yaml:"splitting"`
	Merging      MergingProfile      `yaml:"merging"`
	Evaluation   EvaluationProfile   `yaml:"evaluation"`
	Verification VerificationProfile `yaml:"verification"`
}

type SplittingProfile struct {
	Method                  string              `yaml:"method"`
	ChinesePunctuation      string              `yaml:"chinese_punctuation"`
	WesternPunctuation      string              `yaml:"western_punctuation"`
	QuotePairs              []QuotePairProfile  `yaml:"quote_pairs"`
	Abbreviations           map[string][]string `yaml:"abbreviations"`
	NewlineMode             string              `yaml:"newline_mode"`
	ParagraphBreakThreshold int                 `yaml:"paragraph_break_threshold"`
}

type QuotePairProfile struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type MergingProfile struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxMergeDistance    int     `yaml:"max_merge_distance"`
	MaxChunkSize        int     `yaml:"max_chunk_size"`
}

type EvaluationProfile struct {
	KValues        []int   `yaml:"k_values"`
	RougeThreshold float64 `yaml:"rouge_threshold"`
}

type VerificationProfile struct {
	MaxContextTokens int     `yaml:"max_context_tokens"`
	RougeThreshold   float64 `yaml:"rouge_threshold"`
}

func DefaultProfile() Profile {
	return Profile{
		Splitting: SplittingProfile{
			Method:      split.MethodSentence,
			NewlineMode: split.NewlineModeParagraph,
		},
		Merging: MergingProfile{
			SimilarityThreshold: 0.6,
			MaxMergeDistance:    8,
			MaxChunkSize:        512,
		},
		Evaluation: EvaluationProfile{
			KValues:        []int{1, 3, 5, 10},
			RougeThreshold: 0.5,
		},
		Verification: VerificationProfile{
			MaxContextTokens: 1024,
			RougeThreshold:   0.9,
		},
	}
}

// LoadProfile reads the YAML profile at path on top of the defaults. An
// empty path returns the defaults unchanged.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read chunking profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse chunking profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (p Profile) Validate() error {
	switch p.Splitting.Method {
	case split.MethodSentence, split.MethodNewline:
	default:
		return domain.ConfigError("splitting.method", fmt.Sprintf("unknown value %q", p.Splitting.Method))
	}
	for _, pair := range p.Splitting.QuotePairs {
		if len([]rune(pair.Open)) != 1 || len([]rune(pair.Close)) != 1 {
			return domain.ConfigError("splitting.quote_pairs", fmt.Sprintf("open %q / close %q must be single characters", pair.Open, pair.Close))
		}
	}
	if p.Merging.SimilarityThreshold < 0 || p.Merging.SimilarityThreshold > 1 {
		return domain.ConfigError("merging.similarity_threshold", fmt.Sprintf("%v out of range [0,1]", p.Merging.SimilarityThreshold))
	}
	if p.Merging.MaxMergeDistance <= 0 {
		return domain.ConfigError("merging.max_merge_distance", "must be positive")
	}
	if p.Merging.MaxChunkSize <= 0 {
		return domain.ConfigError("merging.max_chunk_size", "must be positive")
	}
	if len(p.Evaluation.KValues) == 0 {
		return domain.ConfigError("evaluation.k_values", "at least one cutoff required")
	}
	for _, k := range p.Evaluation.KValues {
		if k <= 0 {
			return domain.ConfigError("evaluation.k_values", fmt.Sprintf("cutoff %d must be positive", k))
		}
	}
	if p.Evaluation.RougeThreshold < 0 || p.Evaluation.RougeThreshold > 1 {
		return domain.ConfigError("evaluation.rouge_threshold", fmt.Sprintf("%v out of range [0,1]", p.Evaluation.RougeThreshold))
	}
	if p.Verification.MaxContextTokens <= 0 {
		return domain.ConfigError("verification.max_context_tokens", "must be positive")
	}
	if p.Verification.RougeThreshold < 0 || p.Verification.RougeThreshold > 1 {
		return domain.ConfigError("verification.rouge_threshold", fmt.Sprintf("%v out of range [0,1]", p.Verification.RougeThreshold))
	}
	return nil
}

// SplitConfig translates the profile into the splitter configuration,
// filling unset punctuation, quote and abbreviation tables from the
// built-in defaults.
func (p Profile) SplitConfig() split.Config {
	cfg := split.DefaultConfig()
	cfg.Method = p.Splitting.Method
	if p.Splitting.ChinesePunctuation != "" {
		cfg.ChinesePunctuation = p.Splitting.ChinesePunctuation
	}
	if p.Splitting.WesternPunctuation != "" {
		cfg.WesternPunctuation = p.Splitting.WesternPunctuation
	}
	if len(p.Splitting.QuotePairs) > 0 {
		pairs := make([]split.QuotePair, 0, len(p.Splitting.QuotePairs))
		for _, pair := range p.Splitting.QuotePairs {
			pairs = append(pairs, split.QuotePair{
				Open:  []rune(pair.Open)[0],
				Close: []rune(pair.Close)[0],
			})
		}
		cfg.QuotePairs = pairs
	}
	if len(p.Splitting.Abbreviations) > 0 {
		cfg.Abbreviations = p.Splitting.Abbreviations
	}
	if p.Splitting.NewlineMode != "" {
		cfg.NewlineMode = p.Splitting.NewlineMode
	}
	if p.Splitting.ParagraphBreakThreshold > 0 {
		cfg.ParagraphBreakThreshold = p.Splitting.ParagraphBreakThreshold
	}
	return cfg
}

// MergeOptions translates the merging section into merge options.
func (p Profile) MergeOptions() merge.Options {
	return merge.Options{
		SimilarityThreshold: p.Merging.SimilarityThreshold,
		MaxMergeDistance:    p.Merging.MaxMergeDistance,
		MaxChunkSize:        p.Merging.MaxChunkSize,
	}
}
