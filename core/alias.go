package core

import (
	"strings"
)

const (
	threadIDPrefix = "dm"
	// aliasSeparator replaces runs of whitespace inside a normalized alias.
	aliasSeparator = "-"
)

// NormalizeAlias canonicalizes a display alias into a comparable key.
// It trims the alias, lowercases it and collapses every run of whitespace into a single "-".
//
// Aliases are caller-declared labels, not verified identities. Two different
// people that pick aliases with the same normalized form share one address.
func NormalizeAlias(alias string) string {
	return strings.Join(strings.Fields(strings.ToLower(alias)), aliasSeparator)
}

// ThreadID returns the identifier of the DM thread between two aliases.
// The result does not depend on the argument order: both aliases are normalized,
// sorted and joined as "dm_<first>_<second>".
func ThreadID(a, b string) string {
	first, second := NormalizeAlias(a), NormalizeAlias(b)
	if second < first {
		first, second = second, first
	}
	return threadIDPrefix + "_" + first + "_" + second
}

// OtherAlias returns the participant label that does not belong to self.
// If self matches neither label the second label is returned.
func OtherAlias(participants [2]string, self string) string {
	normalized := NormalizeAlias(self)
	switch normalized {
	case NormalizeAlias(participants[0]):
		return participants[1]
	case NormalizeAlias(participants[1]):
		return participants[0]
	default:
		return participants[1]
	}
}

// isParticipant reports whether the normalized alias is one of the participants.
func isParticipant(participants [2]string, normalized string) bool {
	return NormalizeAlias(participants[0]) == normalized || NormalizeAlias(participants[1]) == normalized
}
