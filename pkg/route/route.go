// Package route classifies request paths against the configured
// protected and public-auth prefix lists.
package route

import "strings"

// Rules holds the two prefix lists. The lists are expected to be
// disjoint; nothing enforces it.
type Rules struct {
	Protected  []string `yaml:"protected"`
	PublicAuth []string `yaml:"public_auth"`
}

func DefaultRules() Rules {
	return Rules{
		Protected: []string{
			"/dashboard",
			"/transactions",
			"/budgets",
			"/analytics",
			"/categories",
			"/ai-assistant",
			"/settings",
		},
		PublicAuth: []string{
			"/auth/login",
			"/auth/signup",
			"/auth/reset-password",
		},
	}
}

// Class is the outcome of classifying a path. Both flags may be false.
type Class struct {
	IsProtected  bool
	IsPublicAuth bool
}

type Classifier struct {
	rules Rules
}

func NewClassifier(rules Rules) *Classifier {
	return &Classifier{
		rules: Rules{
			Protected:  append([]string(nil), rules.Protected...),
			PublicAuth: append([]string(nil), rules.PublicAuth...),
		},
	}
}

func (c *Classifier) Classify(path string) Class {
	return Class{
		IsProtected:  hasAnyPrefix(path, c.rules.Protected),
		IsPublicAuth: hasAnyPrefix(path, c.rules.PublicAuth),
	}
}

// Rules returns a copy of the configured lists.
func (c *Classifier) Rules() Rules {
	return Rules{
		Protected:  append([]string(nil), c.rules.Protected...),
		PublicAuth: append([]string(nil), c.rules.PublicAuth...),
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
