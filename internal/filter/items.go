package filter

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Items is the set of tags an expression is evaluated against, e.g. the contexts of a run
// or the labels of a changeset.
//
// Any []string can be used as Items, duplicates don't change the outcome of Matches.
type Items []string

// NewItems returns the sorted set of the given tags.
// Tags are trimmed and deduplicated case-insensitively, the first spelling wins.
func NewItems(tags ...string) Items {
	set := make(map[string]string, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if _, ok := set[key]; !ok {
			set[key] = tag
		}
	}

	keys := maps.Keys(set)
	slices.Sort(keys)

	items := make(Items, 0, len(keys))
	for _, key := range keys {
		items = append(items, set[key])
	}

	return items
}

// ParseItems parses a comma-separated list of tags like "dev, test,prod".
// Empty entries are skipped, so ParseItems("") returns an empty set.
func ParseItems(list string) Items {
	var tags []string
	for _, tag := range strings.Split(list, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return NewItems(tags...)
}

// Contains reports whether the given tag is part of this set, using the same rules as Matches.
func (i Items) Contains(tag string) bool {
	tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "@"))
	for _, item := range i {
		if equalItem(item, tag) {
			return true
		}
	}

	return false
}

// Len returns the number of tags in this set.
func (i Items) Len() int {
	return len(i)
}

// String returns the tags as comma-separated list, suitable for ParseItems.
func (i Items) String() string {
	return strings.Join(i, ", ")
}

// Expression is a boolean tag expression as understood by Matches.
type Expression string

// IsEmpty reports whether the expression consists of whitespace only.
func (e Expression) IsEmpty() bool {
	return strings.TrimSpace(string(e)) == ""
}

// Matches evaluates this expression against the given items.
func (e Expression) Matches(items Items) (bool, error) {
	return Matches(string(e), items)
}

func (e Expression) String() string {
	return string(e)
}
