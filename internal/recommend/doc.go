// Package recommend matches a user's ingredients against the recipe dataset.
//
// A raw dataset ingredient list looks like "돼지고기 300g|양파 1/2개". Each
// segment is reduced to its ingredient name by dropping the text after the
// last whitespace, the names are scored against the user's ingredients by a
// Matcher, and a Ranker keeps the best few candidates above a threshold.
//
// Everything in this package is synchronous and safe for concurrent use once
// constructed. Persistence and AI enrichment live in the service package.
package recommend
