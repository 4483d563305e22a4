// Package photo resolves stored photo references into short-lived presigned URLs.
//
// A reference arrives with the resource it belongs to (a part, a repair ticket,
// a user profile, a warranty claim). The locator decides whether the reference
// needs exchanging at all; the Cache exchanges it through a Fetcher at most once
// per key at a time and keeps the resulting URL for the kind's freshness window.
//
// Entry lifecycle:
//
//	absent --Get--> pending --ok--> resolved --fresh elapses--> pending
//	                   |
//	                   +--error--> failed --evict/invalidate--> absent
//	resolved --evict/invalidate--> absent
//
// Views bind a consumer to one key and follow its state; the Prefetcher warms
// keys ahead of rendering with the same key derivation and TTLs.
package photo
