// Package kvargs turns option maps into command line arguments in a stable order
package kvargs

import (
	"sort"
	"strings"
)

// Sorted calls argFn for each key/value in key order and concatenates the results
// {b: "2", a: "1"} -> [argFn("a", "1")..., argFn("b", "2")...]
func Sorted(m map[string]string, argFn func(k, v string) []string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var s []string
	for _, k := range keys {
		s = append(s, argFn(k, m[k])...)
	}
	return s
}

// Option returns a argFn producing ["-k"+suffix, v]
func Option(suffix string) func(k, v string) []string {
	return func(k, v string) []string {
		if !strings.HasPrefix(k, "-") {
			k = "-" + k
		}
		return []string{k + suffix, v}
	}
}

// Assign returns a argFn producing ["k=v"] with value escaped by escape
func Assign(escape func(string) string) func(k, v string) []string {
	return func(k, v string) []string {
		if escape != nil {
			v = escape(v)
		}
		return []string{k + "=" + v}
	}
}
