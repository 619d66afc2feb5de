// Package filter rewrites binding expressions that use the pipe filter syntax
// (`value | format('x')`) into plain call expressions (`_f("format")(value,'x')`).
package filter

import (
	"regexp"
	"strings"
)

var validDivisionCharRE = regexp.MustCompile(`[\w).+\-_$\]]`)

// Parse returns exp with every top-level filter applied as a call.
// Pipes inside strings, template literals, regex literals and brackets are left alone,
// and `||` is never treated as a filter separator.
func Parse(exp string) string {
	var (
		inSingle, inDouble, inTemplate, inRegex bool
		curly, square, paren                    int
		lastFilterIndex                         int
		expression                              string
		haveExpression                          bool
		filters                                 []string
		c, prev                                 byte
	)

	pushFilter := func(i int) {
		filters = append(filters, strings.TrimSpace(exp[lastFilterIndex:i]))
		lastFilterIndex = i + 1
	}

	i := 0
	for ; i < len(exp); i++ {
		prev = c
		c = exp[i]

		switch {
		case inSingle:
			if c == '\'' && prev != '\\' {
				inSingle = false
			}
		case inDouble:
			if c == '"' && prev != '\\' {
				inDouble = false
			}
		case inTemplate:
			if c == '`' && prev != '\\' {
				inTemplate = false
			}
		case inRegex:
			if c == '/' && prev != '\\' {
				inRegex = false
			}
		case c == '|' && byteAt(exp, i+1) != '|' && byteAt(exp, i-1) != '|' && curly == 0 && square == 0 && paren == 0:
			if !haveExpression {
				lastFilterIndex = i + 1
				expression = strings.TrimSpace(exp[:i])
				haveExpression = true
			} else {
				pushFilter(i)
			}
		default:
			switch c {
			case '"':
				inDouble = true
			case '\'':
				inSingle = true
			case '`':
				inTemplate = true
			case '(':
				paren++
			case ')':
				paren--
			case '[':
				square++
			case ']':
				square--
			case '{':
				curly++
			case '}':
				curly--
			case '/':
				if startsRegex(exp, i) {
					inRegex = true
				}
			}
		}
	}

	if !haveExpression {
		expression = strings.TrimSpace(exp[:i])
	} else if lastFilterIndex != 0 {
		pushFilter(i)
	}

	for _, f := range filters {
		expression = wrap(expression, f)
	}

	return expression
}

// startsRegex decides whether the slash at i opens a regex literal rather than a division.
func startsRegex(exp string, i int) bool {
	j := i - 1
	for ; j >= 0; j-- {
		if exp[j] != ' ' {
			break
		}
	}
	if j < 0 {
		return true
	}
	return !validDivisionCharRE.MatchString(exp[j : j+1])
}

func byteAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func wrap(exp, filter string) string {
	i := strings.IndexByte(filter, '(')
	if i < 0 {
		return `_f("` + filter + `")(` + exp + `)`
	}

	name := filter[:i]
	args := filter[i+1:]
	if args != ")" {
		return `_f("` + name + `")(` + exp + `,` + args
	}
	return `_f("` + name + `")(` + exp + args
}
