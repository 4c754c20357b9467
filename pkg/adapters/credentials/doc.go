// Package credentials provides sources for the outbound pipelines API token.
//
// Implementations:
//   - file: projected service-account token, re-read on every call
package credentials
