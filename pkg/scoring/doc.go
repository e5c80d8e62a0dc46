// Package scoring rates generated articles on a bounded 0-100 scale.
//
// A score is the weighted sum of five sub-scores:
//
//   - length: how close the word count is to the requested length
//   - keyword: case-insensitive occurrences of the keyword, capped
//   - structure: H1 title, sub-headings and lists (Markdown or HTML)
//   - links: presence of the target URL and anchor text
//   - readability: average sentence length
//
// Each sub-score is a fraction in [0, 1] multiplied by its weight. Weights
// are configuration and are normalized to sum to 100, so Total is always in
// [0, 100]. The scorer is deterministic and never panics; text shorter than
// MinCharacters scores zero.
//
// Markdown structure is read from the goldmark AST. HTML fragments that
// providers sometimes return instead of Markdown are detected by tag.
package scoring
