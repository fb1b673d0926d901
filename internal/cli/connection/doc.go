// Package connection provides the HTTP clients the OfChat CLI uses to
// reach the verification and account services.
//
//   - http.go: action protocol client with request tracing and ping
//   - breaker.go: circuit breaker transport
//   - verification.go, account.go: service.VerificationService and
//     service.AccountService implementations
package connection
