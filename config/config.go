package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/webfit/candidates"
	"github.com/randalmurphal/webfit/dom"
	"github.com/randalmurphal/webfit/prompt"
	"github.com/randalmurphal/webfit/tokens"
	"github.com/randalmurphal/webfit/truncate"
)

// ErrUnknownFormat is returned by Load for a file extension it cannot parse.
var ErrUnknownFormat = errors.New("unknown config format")

// Allocation distributes the total budget across prompt sections as relative
// weights.
type Allocation struct {
	// Instructions is the weight for the task instructions.
	Instructions int `json:"instructions" yaml:"instructions" toml:"instructions"`

	// History is the weight for utterances and previous actions.
	History int `json:"history" yaml:"history" toml:"history"`

	// Page is the weight for the page's markup tree representation.
	Page int `json:"page" yaml:"page" toml:"page"`

	// Candidates is the weight for the ranked candidate elements.
	Candidates int `json:"candidates" yaml:"candidates" toml:"candidates"`

	// Reserved is the weight held back for response generation.
	Reserved int `json:"reserved" yaml:"reserved" toml:"reserved"`
}

// Profile is a complete truncation configuration: how to measure tokens, how
// to split the budget, and how each section is truncated.
type Profile struct {
	// Encoding selects a tiktoken encoding for exact counting. Empty means
	// estimate from character length instead.
	Encoding string `json:"encoding" yaml:"encoding" toml:"encoding"`

	// CharsPerToken tunes the estimating counter when Encoding is empty.
	// 0 uses the default ratio.
	CharsPerToken float64 `json:"chars_per_token" yaml:"chars_per_token" toml:"chars_per_token"`

	// TotalTokens is the overall prompt budget.
	TotalTokens int `json:"total_tokens" yaml:"total_tokens" toml:"total_tokens"`

	// Allocation splits TotalTokens across the prompt sections. All-zero
	// weights fall back to the default allocation.
	Allocation Allocation `json:"allocation" yaml:"allocation" toml:"allocation"`

	// Marker is spliced where content was removed.
	Marker string `json:"marker" yaml:"marker" toml:"marker"`

	// MaxAttempts bounds every convergence loop.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`

	// IterativeReduction widens removal windows one token at a time when
	// re-tokenization refuses to shrink.
	IterativeReduction bool `json:"iterative_reduction" yaml:"iterative_reduction" toml:"iterative_reduction"`

	// ProtectedFields are candidate-record fields excluded from truncation.
	ProtectedFields []string `json:"protected_fields" yaml:"protected_fields" toml:"protected_fields"`

	// KeepEmptyFields renders fully-truncated candidate fields instead of
	// dropping them from the document.
	KeepEmptyFields bool `json:"keep_empty_fields" yaml:"keep_empty_fields" toml:"keep_empty_fields"`

	// KeepEmptyNodes leaves the marker in fully-truncated tree nodes
	// instead of clearing them.
	KeepEmptyNodes bool `json:"keep_empty_nodes" yaml:"keep_empty_nodes" toml:"keep_empty_nodes"`

	// NumPrevTurns bounds the previous-turn window.
	NumPrevTurns int `json:"num_prev_turns" yaml:"num_prev_turns" toml:"num_prev_turns"`

	// NumUtterances bounds the utterance selection.
	NumUtterances int `json:"num_utterances" yaml:"num_utterances" toml:"num_utterances"`

	// UIDKey is the attribute carrying element identifiers in the markup.
	UIDKey string `json:"uid_key" yaml:"uid_key" toml:"uid_key"`
}

// DefaultProfile returns the profile used when no config file is given:
// estimated counting, a 4096-token budget with the default allocation, and
// the default truncation knobs everywhere.
func DefaultProfile() Profile {
	return Profile{
		CharsPerToken: tokens.DefaultCharsPerToken,
		TotalTokens:   4096,
		Allocation: Allocation{
			Instructions: tokens.DefaultInstructionsPercent,
			History:      tokens.DefaultHistoryPercent,
			Page:         tokens.DefaultPagePercent,
			Candidates:   tokens.DefaultCandidatesPercent,
			Reserved:     tokens.DefaultReservedPercent,
		},
		Marker:          truncate.DefaultMarker,
		MaxAttempts:     truncate.DefaultMaxAttempts,
		ProtectedFields: candidates.DefaultProtected,
		NumPrevTurns:    prompt.DefaultNumPrevTurns,
		NumUtterances:   prompt.DefaultNumUtterances,
		UIDKey:          dom.DefaultUIDKey,
	}
}

// Load reads a profile from a YAML or TOML file, chosen by extension.
// Missing keys keep their DefaultProfile values.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read config: %w", err)
	}

	profile := DefaultProfile()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return Profile{}, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &profile); err != nil {
			return Profile{}, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	default:
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}

	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Validate rejects profiles no component could run with.
func (p Profile) Validate() error {
	if p.TotalTokens < 0 {
		return fmt.Errorf("total_tokens must be >= 0, got %d", p.TotalTokens)
	}
	if p.CharsPerToken < 0 {
		return fmt.Errorf("chars_per_token must be >= 0, got %v", p.CharsPerToken)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", p.MaxAttempts)
	}
	for _, w := range []int{
		p.Allocation.Instructions, p.Allocation.History, p.Allocation.Page,
		p.Allocation.Candidates, p.Allocation.Reserved,
	} {
		if w < 0 {
			return fmt.Errorf("allocation weights must be >= 0, got %d", w)
		}
	}
	return nil
}

// Tokenizer builds the tokenizer the profile asks for: a tiktoken encoding
// when Encoding is set, otherwise the estimating counter.
func (p Profile) Tokenizer() (tokens.Tokenizer, error) {
	if p.Encoding != "" {
		return tokens.NewTiktoken(p.Encoding)
	}
	if p.CharsPerToken > 0 {
		return tokens.NewEstimatingCounterWithRatio(p.CharsPerToken), nil
	}
	return tokens.NewEstimatingCounter(), nil
}

// Budget builds the section budget from the profile's total and allocation.
func (p Profile) Budget() *tokens.Budget {
	a := p.Allocation
	if a == (Allocation{}) {
		return tokens.NewBudget(p.TotalTokens)
	}
	return tokens.NewBudgetWithAllocation(p.TotalTokens,
		a.Instructions, a.History, a.Page, a.Candidates, a.Reserved)
}

// TreeOptions maps the profile onto markup-tree truncation options.
func (p Profile) TreeOptions() dom.Options {
	return dom.Options{
		Marker:             p.Marker,
		MaxAttempts:        p.MaxAttempts,
		KeepEmpty:          p.KeepEmptyNodes,
		IterativeReduction: p.IterativeReduction,
	}
}

// CandidateOptions maps the profile onto candidate-list truncation options.
func (p Profile) CandidateOptions() candidates.Options {
	return candidates.Options{
		Marker:             p.Marker,
		MaxAttempts:        p.MaxAttempts,
		KeepEmpty:          p.KeepEmptyFields,
		IterativeReduction: p.IterativeReduction,
	}
}

// PromptOptions maps the profile onto dialogue-history truncation options.
func (p Profile) PromptOptions() prompt.Options {
	return prompt.Options{
		Marker:             p.Marker,
		MaxAttempts:        p.MaxAttempts,
		NumPrevTurns:       p.NumPrevTurns,
		NumUtterances:      p.NumUtterances,
		IterativeReduction: p.IterativeReduction,
	}
}
