// Package classify extracts categorized indicators from scanner log lines.
package classify

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Category names a class of indicator the classifier recognizes.
type Category string

const (
	IPAddress  Category = "IP Addresses"
	Email      Category = "Emails"
	Domain     Category = "Domains"
	DarkWeb    Category = "Dark Web Mentions"
	PublicKey  Category = "Encryption Keys"
	Credential Category = "Credentials"
)

// Rule pairs a category with the expression that extracts it. When the
// expression has a capture group, the first group is the extracted value.
//
// RE2's \b only knows ASCII word characters. A WordBounded rule instead
// requires a Unicode word boundary (letters, digits and underscore) at both
// ends of the match; a rejected candidate is retried one rune later.
type Rule struct {
	Category    Category
	Pattern     *regexp.Regexp
	WordBounded bool
}

// Match is a single extracted value.
type Match struct {
	Category Category
	Value    string
}

// Word and digit classes are Unicode-aware. Credential pairs end at a
// literal backslash-n in the log text, not at a real line break.
var defaultRules = []Rule{
	{Category: IPAddress, Pattern: regexp.MustCompile(`(?:\p{Nd}{1,3}\.){3}\p{Nd}{1,3}`), WordBounded: true},
	{Category: Email, Pattern: regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+`)},
	{Category: Domain, Pattern: regexp.MustCompile(`(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}`)},
	{Category: DarkWeb, Pattern: regexp.MustCompile(`[a-zA-Z0-9]{16}\.onion`)},
	{Category: PublicKey, Pattern: regexp.MustCompile(`(?:ssh-rsa|ssh-ed25519) AAAA[0-9A-Za-z+/=]+`)},
	{Category: Credential, Pattern: regexp.MustCompile(`(user:.*?pass:.*?)\\n`)},
}

// Classifier applies an ordered rule table to lines of text.
type Classifier struct {
	rules []Rule
}

// New builds a classifier over the given rules. With no rules it uses the
// built-in table.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = defaultRules
	}
	dup := make([]Rule, len(rules))
	copy(dup, rules)
	return &Classifier{rules: dup}
}

// Default returns a classifier over the built-in table.
func Default() *Classifier {
	return New()
}

// Categories returns the rule categories in table order, without repeats.
func (c *Classifier) Categories() []Category {
	seen := make(map[Category]bool, len(c.rules))
	out := make([]Category, 0, len(c.rules))
	for _, r := range c.rules {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Classify runs every rule against line independently and returns all
// extractions, grouped by rule order and then by position in the line.
func (c *Classifier) Classify(line string) []Match {
	if line == "" {
		return nil
	}
	var out []Match
	for _, r := range c.rules {
		for _, v := range r.values(line) {
			out = append(out, Match{Category: r.Category, Value: v})
		}
	}
	return out
}

func (r Rule) values(line string) []string {
	if r.WordBounded {
		return r.boundedValues(line)
	}
	var out []string
	if r.Pattern.NumSubexp() == 0 {
		return r.Pattern.FindAllString(line, -1)
	}
	for _, groups := range r.Pattern.FindAllStringSubmatch(line, -1) {
		if groups[1] != "" {
			out = append(out, groups[1])
		}
	}
	return out
}

func (r Rule) boundedValues(line string) []string {
	var out []string
	for pos := 0; pos < len(line); {
		loc := r.Pattern.FindStringSubmatchIndex(line[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if end == start || !wordBoundary(line, start) || !wordBoundary(line, end) {
			_, size := utf8.DecodeRuneInString(line[start:])
			pos = start + max(size, 1)
			continue
		}
		value := line[start:end]
		if len(loc) >= 4 {
			value = ""
			if loc[2] >= 0 {
				value = line[pos+loc[2] : pos+loc[3]]
			}
		}
		if value != "" {
			out = append(out, value)
		}
		pos = end
	}
	return out
}

// wordBoundary reports whether exactly one side of byte offset i in s is a
// word character.
func wordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
