// Package nodes contains the built-in node kinds: static values, logic,
// math, comparison, color, easing and data model access.
//
// Every kind is registered explicitly through RegisterBuiltins. Kind ids are
// persisted with scripts and must never change.
package nodes
