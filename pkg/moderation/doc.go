// Package moderation screens content requests before any provider is
// called.
//
// The default KeywordGate matches the request's keyword, anchor and hint
// fields against term lists grouped by category. Categories configured
// under block_categories reject the request; those under
// review_categories let it through with RequiresReview set on the
// result. Prompt-injection phrasing rejects. Personal data (emails, phone
// numbers, card and social security numbers) flags for review.
package moderation
