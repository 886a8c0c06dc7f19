package ignore

import (
	"regexp"
	"strings"
)

// globPattern matches names and paths with shell-style wildcards where "*" matches any run of
// characters including path separators, "?" matches one character and "[...]" matches a
// character class ("[!...]" negates it).
type globPattern struct {
	expression *regexp.Regexp
}

// compileGlob translates a shell-style pattern into an anchored regular expression.
// A malformed class (for example an inverted range) falls back to literal matching.
func compileGlob(pattern string) globPattern {
	expression, compileError := regexp.Compile(translateGlob(pattern))
	if compileError != nil {
		expression = regexp.MustCompile(`(?s)\A` + regexp.QuoteMeta(pattern) + `\z`)
	}
	return globPattern{expression: expression}
}

// Match reports whether value matches the pattern in full.
func (pattern globPattern) Match(value string) bool {
	return pattern.expression.MatchString(value)
}

func translateGlob(pattern string) string {
	var builder strings.Builder
	builder.WriteString(`(?s)\A`)
	runes := []rune(pattern)
	for index := 0; index < len(runes); index++ {
		current := runes[index]
		switch current {
		case '*':
			for index+1 < len(runes) && runes[index+1] == '*' {
				index++
			}
			builder.WriteString(".*")
		case '?':
			builder.WriteString(".")
		case '[':
			classEnd := findClassEnd(runes, index+1)
			if classEnd < 0 {
				builder.WriteString(`\[`)
				continue
			}
			builder.WriteString(translateClass(runes[index+1 : classEnd]))
			index = classEnd
		default:
			builder.WriteString(regexp.QuoteMeta(string(current)))
		}
	}
	builder.WriteString(`\z`)
	return builder.String()
}

// findClassEnd returns the index of the "]" closing a class that starts at start, or -1.
// A "]" directly after the opening bracket (or after "!") is a literal member.
func findClassEnd(runes []rune, start int) int {
	position := start
	if position < len(runes) && runes[position] == '!' {
		position++
	}
	if position < len(runes) && runes[position] == ']' {
		position++
	}
	for position < len(runes) && runes[position] != ']' {
		position++
	}
	if position >= len(runes) {
		return -1
	}
	return position
}

func translateClass(members []rune) string {
	var builder strings.Builder
	builder.WriteString("[")
	for memberIndex, member := range members {
		switch {
		case memberIndex == 0 && member == '!':
			builder.WriteString("^")
		case member == '\\' || member == '[' || member == ']' || (memberIndex == 0 && member == '^'):
			builder.WriteString(`\`)
			builder.WriteRune(member)
		default:
			builder.WriteRune(member)
		}
	}
	builder.WriteString("]")
	return builder.String()
}
