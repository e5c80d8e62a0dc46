// Package prompts builds the per-provider prompt variants for a content
// request.
//
// Build is pure: the same request and count always produce the same
// prompts in the same order. Variants rotate over four writing styles,
// starting at an offset derived from an FNV-1a hash of the normalized
// keyword, so different keywords spread their first prompt across styles
// while a given keyword always maps to the same assignment.
//
// Example:
//
//	req, _ := content.NewRequest(content.Request{
//	    Keyword:   "home composting",
//	    TargetURL: "https://example.com/compost",
//	})
//	for i, p := range prompts.Build(req, 3) {
//	    fmt.Println(i, p.Style)
//	}
package prompts
