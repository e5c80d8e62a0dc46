package orchestrator

import "mercator-hq/scribe/pkg/moderation"

// ModerationRejectedError is returned by Generate when the moderation
// gate blocks a request. No provider is called.
type ModerationRejectedError = moderation.RejectedError
