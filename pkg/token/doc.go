// Package token generates and hashes the secrets the OfChat dev backend
// hands out: numeric one-time codes, random identifiers and password hashes.
//
// One-time codes are stored only as SHA-256 digests. Passwords use
// Argon2id in the PHC string format:
//
//	$argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
//
// All randomness comes from crypto/rand and every comparison is
// constant-time.
package token
