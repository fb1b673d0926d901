// Package domain defines the core domain models for OfChat.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - UserSession: the persisted record of the logged-in account
//   - Account: the account view returned by the account service
//   - RegistrationDraft, Credentials: registration and login form input
//   - VerificationChallenge: one outstanding phone-proof attempt
//   - Errors: coded, categorised error definitions
package domain
