// Package service implements the OfChat client's auth flow.
//
// AuthFlow drives registration (form, phone verification, account
// creation) and login up to an established UserSession. It talks to the
// backend only through the VerificationService and AccountService
// interfaces, and writes the session through a SessionRepository,
// normally a SessionStore over the embedded KV engine.
//
// All AuthFlow methods are safe for concurrent use.
package service
