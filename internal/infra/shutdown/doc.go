// Package shutdown runs cleanup hooks when the dev server is asked to stop.
//
// Hooks are registered by name as components start and run in reverse
// order once SIGINT or SIGTERM arrives, or the context passed to
// WaitContext ends. All hooks share one deadline.
package shutdown
