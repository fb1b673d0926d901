// Package repl provides the interactive prompts of ofchat-cli.
//
// REPL is a small line loop; Verify builds the phone verification prompt
// on it, accepting a code, "resend" or "back".
package repl
