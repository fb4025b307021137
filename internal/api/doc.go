// Package api wraps the official OpenAI SDK behind a small client with
// per-call timeouts and reduced result types, so commands render output
// without depending on SDK structures.
package api
