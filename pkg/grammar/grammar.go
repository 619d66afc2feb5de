// Package grammar holds the small pattern grammars embedded in template directives.
//
// Each matcher works on plain strings so it can be verified without a tree:
//
//	v-for      <alias> (in|of) <expression>
//	           alias may be wrapped in one pair of parens and may end in
//	           ", <iterator1>[, <iterator2>]"
//	v-slot     v-slot[:<name>] | #<name>    name may be a dynamic argument "[expr]"
package grammar

import (
	"regexp"
	"strings"
)

var (
	forAliasRE      = regexp.MustCompile(`([\s\S]*?)\s+(?:in|of)\s+([\s\S]*)`)
	forIteratorRE   = regexp.MustCompile(`,([^,\}\]]*)(?:,([^,\}\]]*))?$`)
	stripParensRE   = regexp.MustCompile(`^\(|\)$`)
	dynamicArgRE    = regexp.MustCompile(`^\[.*\]$`)
	invalidAttrRE   = regexp.MustCompile(`[\s"'<>/=]`)
	lineBreakRE     = regexp.MustCompile(`[\r\n]`)
	whitespaceRunRE = regexp.MustCompile(`[ \f\t\r\n]+`)

	// SlotRE matches attribute names of the v-slot directive and its # shorthand.
	SlotRE = regexp.MustCompile(`^v-slot(:|$)|^#`)
)

// EmptySlotScopeToken stands in for a v-slot without a scope alias.
const EmptySlotScopeToken = "_empty_"

// ForResult is the destructured form of a v-for expression.
type ForResult struct {
	Alias     string
	For       string
	Iterator1 string
	Iterator2 string
}

// ParseFor splits a v-for expression. It reports false when the expression has no in/of separator.
func ParseFor(exp string) (ForResult, bool) {
	inMatch := forAliasRE.FindStringSubmatch(exp)
	if inMatch == nil {
		return ForResult{}, false
	}

	res := ForResult{For: strings.TrimSpace(inMatch[2])}

	alias := stripParensRE.ReplaceAllString(strings.TrimSpace(inMatch[1]), "")
	iteratorMatch := forIteratorRE.FindStringSubmatch(alias)
	if iteratorMatch == nil {
		res.Alias = alias
		return res, true
	}

	res.Alias = strings.TrimSpace(forIteratorRE.ReplaceAllString(alias, ""))
	res.Iterator1 = strings.TrimSpace(iteratorMatch[1])
	if iteratorMatch[2] != "" {
		res.Iterator2 = strings.TrimSpace(iteratorMatch[2])
	}

	return res, true
}

// SlotName is a resolved v-slot name.
type SlotName struct {
	// Name is quoted when static and bracket-stripped when dynamic.
	Name    string
	Dynamic bool
	// MissingName is set for a bare "#" shorthand, which requires a name.
	MissingName bool
}

// ParseSlotName resolves the slot name from a v-slot attribute name.
func ParseSlotName(binding string) SlotName {
	var res SlotName

	name := SlotRE.ReplaceAllString(binding, "")
	if name == "" {
		if !strings.HasPrefix(binding, "#") {
			name = "default"
		} else {
			res.MissingName = true
		}
	}

	if IsDynamicArg(name) {
		res.Name = name[1 : len(name)-1]
		res.Dynamic = true
		return res
	}

	res.Name = `"` + name + `"`
	return res
}

// IsSlotAttr reports whether an attribute name is a v-slot binding.
func IsSlotAttr(name string) bool {
	return SlotRE.MatchString(name)
}

// IsDynamicArg reports whether name is written in bracket form.
func IsDynamicArg(name string) bool {
	return dynamicArgRE.MatchString(name)
}

// HasInvalidAttrChars reports characters that can never appear in a dynamic argument.
func HasInvalidAttrChars(name string) bool {
	return invalidAttrRE.MatchString(name)
}

// HasLineBreak reports whether text contains a CR or LF.
func HasLineBreak(text string) bool {
	return lineBreakRE.MatchString(text)
}

// CondenseWhitespace collapses every whitespace run to a single space.
func CondenseWhitespace(text string) string {
	return whitespaceRunRE.ReplaceAllString(text, " ")
}
