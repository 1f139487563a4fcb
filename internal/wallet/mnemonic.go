package wallet

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// MnemonicWords is the number of words whose entropy is exactly one seed.
const MnemonicWords = 24

// MaxTypoDistance is the maximum Levenshtein distance to consider a suggestion.
const MaxTypoDistance = 2

var (
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[\.\)\:]\s*`)
	bulletListRegex   = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// SeedFromMnemonic converts a 24-word BIP39 mnemonic into a Seed holding its
// 256 bits of entropy. Invalid input yields ErrInvalidMnemonic with typo
// suggestions attached when any word is close to a dictionary word.
func SeedFromMnemonic(mnemonic string) (*Seed, error) {
	normalized := NormalizeMnemonicInput(mnemonic)

	if n := len(strings.Fields(normalized)); n != MnemonicWords {
		return nil, syncerr.WithDetails(syncerr.ErrInvalidMnemonic, map[string]string{
			"words": strconv.Itoa(n),
			"want":  strconv.Itoa(MnemonicWords),
		})
	}

	entropy, err := bip39.EntropyFromMnemonic(normalized)
	if err != nil {
		invalid := syncerr.Mark(syncerr.ErrInvalidMnemonic, err)
		if hint := FormatTypoSuggestions(DetectTypos(normalized)); hint != "" {
			return nil, syncerr.WithSuggestion(invalid, hint)
		}
		return nil, invalid
	}
	defer ZeroBytes(entropy)

	return NewSeed(entropy)
}

// NormalizeMnemonicInput lowercases the phrase, strips list numbering and
// bullets, treats commas as separators and collapses whitespace.
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// TypoInfo describes a word that is not in the BIP39 word list.
type TypoInfo struct {
	Index      int // 0-based position in the phrase
	Word       string
	Suggestion string // closest dictionary word, empty if none is close enough
}

// SuggestWord finds the closest BIP39 word within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string
	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist == 0 {
			return word
		}
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos lists the words of mnemonic that are not BIP39 words.
func DetectTypos(mnemonic string) []TypoInfo {
	var typos []TypoInfo
	for i, word := range strings.Fields(NormalizeMnemonicInput(mnemonic)) {
		if _, ok := bip39.GetWordIndex(word); ok {
			continue
		}
		typos = append(typos, TypoInfo{
			Index:      i,
			Word:       word,
			Suggestion: SuggestWord(word),
		})
	}
	return typos
}

// FormatTypoSuggestions renders typos one per line, 1-indexed.
func FormatTypoSuggestions(typos []TypoInfo) string {
	lines := make([]string, 0, len(typos))
	for _, typo := range typos {
		line := "word " + strconv.Itoa(typo.Index+1) + ": '" + typo.Word + "'"
		if typo.Suggestion != "" {
			line += " - did you mean '" + typo.Suggestion + "'?"
		} else {
			line += " is not a valid BIP39 word"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
