// Package policy provides the key validity predicate applied to every waiter
// key. The default policy accepts any non-empty string; a Policy built from
// Config can narrow that with a pattern, a length limit and reserved prefixes,
// and hosts can plug in their own KeyValidator.
package policy
