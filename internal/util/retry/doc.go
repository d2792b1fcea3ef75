// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable max attempts and
// jittered, bounded delays. It is used for Cloudflare API calls and other
// operations that may fail transiently.
package retry
