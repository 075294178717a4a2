// preprocessor.go - source transpiler from console Lua dialect to gopher-lua
//
// Grounded on the general notion of a single-pass textual rewrite before
// handing source to the runtime, the way terminal_io.go pre-filters raw
// input bytes before they reach the line buffer; the actual substitutions
// are the console dialect's own documented sugars (spec.md §4.6).

package main

import "strings"

// Preprocess rewrites one cart's Lua source from the console's dialect into
// plain Lua gopher-lua can compile:
//   - "!=" -> "~="
//   - a line whose first non-space character is "?" -> print(...)
//   - "@addr"/"%addr"/"$addr" -> peek(addr)/peek2(addr)/peek4(addr)
//   - "//" line comments -> "--" (gopher-lua's lexer has no "//" comment
//     form; PICO-8 Lua supports both, so carts using "//" would otherwise
//     fail to parse — Open Question decision, SPEC_FULL.md)
func Preprocess(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = preprocessLine(line)
	}
	return strings.Join(lines, "\n")
}

func preprocessLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]

	if strings.HasPrefix(trimmed, "?") {
		expr := strings.TrimSpace(trimmed[1:])
		if expr == "" {
			return indent + "print()"
		}
		return indent + "print(" + expr + ")"
	}

	var b strings.Builder
	inString := byte(0)
	i := 0
	for i < len(line) {
		c := line[i]
		if inString != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(line) {
				i++
				b.WriteByte(line[i])
			} else if c == inString {
				inString = 0
			}
			i++
			continue
		}
		switch {
		case c == '"' || c == '\'':
			inString = c
			b.WriteByte(c)
			i++
		case c == '-' && i+1 < len(line) && line[i+1] == '-':
			b.WriteString(line[i:])
			i = len(line)
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			b.WriteString("--")
			b.WriteString(line[i+2:])
			i = len(line)
		case c == '!' && i+1 < len(line) && line[i+1] == '=':
			b.WriteString("~=")
			i += 2
		case (c == '@' || c == '%' || c == '$') && i+1 < len(line) && isAddrStart(line[i+1]):
			fn := peekSugar(c)
			expr, n := readAddrExpr(line[i+1:])
			b.WriteString(fn + "(" + expr + ")")
			i += 1 + n
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func isAddrStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '(' || isIdentStart(c)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func peekSugar(c byte) string {
	switch c {
	case '@':
		return "peek"
	case '%':
		return "peek2"
	case '$':
		return "peek4"
	}
	return "peek"
}

// readAddrExpr reads a minimal address expression after a sugar prefix: a
// hex/decimal literal, an identifier, or a parenthesized expression,
// matching the console dialect's "one atom" sugar scope.
func readAddrExpr(s string) (string, int) {
	if len(s) == 0 {
		return "0", 0
	}
	if s[0] == '(' {
		depth := 0
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return s[1:i], i + 1
				}
			}
		}
		return s[1:], len(s)
	}
	i := 0
	for i < len(s) && (isIdentStart(s[i]) || (s[i] >= '0' && s[i] <= '9') || s[i] == '.' || s[i] == 'x') {
		i++
	}
	if i == 0 {
		return "0", 0
	}
	return s[:i], i
}
