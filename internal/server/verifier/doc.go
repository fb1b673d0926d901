// Package verifier implements the SMS verification service of
// ofchat-devserver.
//
// Codes are six random digits, stored as SHA-256 hashes in a CodeStore
// keyed by phone number. A code is valid for the configured TTL and for a
// limited number of checks; a successful check consumes it. Sends are
// throttled per phone by a token bucket.
//
// Two stores are provided: MemoryCodeStore for single-process use and
// RedisCodeStore, which keeps each record in a hash at ofchat:sms:<phone>.
package verifier
