// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package argv splits a raw argument vector into named flags and positionals
// without requiring flags to be declared up front.
package argv

import (
	"strconv"
	"strings"
)

// Parsed is the result of splitting an argument vector.
type Parsed struct {
	Flags      map[string]string
	Positional []string
}

// Lookup returns the last value given for the named flag.
func (p Parsed) Lookup(name string) (string, bool) {
	v, ok := p.Flags[name]
	return v, ok
}

// Nth returns the n-th positional argument, counting from 1.
func (p Parsed) Nth(n int) (string, bool) {
	if n < 1 || n > len(p.Positional) {
		return "", false
	}
	return p.Positional[n-1], true
}

// Parse recognises the following forms:
//
//	--name value   --name=value   -n value   -n=value   -n5
//	-abc           (grouped short flags, a and b are "true", c takes a value)
//	--name         (followed by a flag or nothing, means "true")
//	--no-name      (means "false")
//	--             (everything after is positional)
func Parse(args []string) Parsed {
	p := Parsed{
		Flags: make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			p.Positional = append(p.Positional, args[i+1:]...)
			break
		}
		if !isFlag(arg) {
			p.Positional = append(p.Positional, arg)
			continue
		}

		var name string
		if strings.HasPrefix(arg, "--") {
			name = arg[2:]
			if k, v, found := strings.Cut(name, "="); found {
				p.Flags[k] = v
				continue
			}
			if strings.HasPrefix(name, "no-") && len(name) > 3 {
				p.Flags[name[3:]] = "false"
				continue
			}
		} else {
			var done bool
			name, done = p.shortGroup(arg[1:])
			if done {
				continue
			}
		}

		if i+1 < len(args) && !isFlag(args[i+1]) {
			p.Flags[name] = args[i+1]
			i++
			continue
		}
		p.Flags[name] = "true"
	}
	return p
}

// shortGroup sets every letter of a short flag group but the last to
// "true". A letter followed by "=" or by a number takes the rest as its
// value, in which case done is true. Otherwise the last letter is
// returned so it may take the next argument as its value.
func (p Parsed) shortGroup(group string) (last string, done bool) {
	for j := 0; j < len(group); j++ {
		letter, rest := group[j:j+1], group[j+1:]
		if strings.HasPrefix(rest, "=") {
			p.Flags[letter] = rest[1:]
			return "", true
		}
		if rest != "" && isNumber(rest) {
			p.Flags[letter] = rest
			return "", true
		}
		if rest == "" {
			return letter, false
		}
		p.Flags[letter] = "true"
	}
	return "", true
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// "-" alone and negative numbers are values, not flags.
func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	if arg == "--" {
		return true
	}
	c := arg[1]
	if c >= '0' && c <= '9' || c == '.' {
		return false
	}
	return true
}
