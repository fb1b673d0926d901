// Package main provides the entry point for ofchat-devserver.
//
// ofchat-devserver is a local stand-in for the OfChat SMS verification
// and account services. It serves /sms and /auth over HTTP, keeps accounts
// in memory and codes in memory or Redis, and can echo issued codes back
// to the client in development.
//
// Usage:
//
//	ofchat-devserver -config devserver.yaml
package main
