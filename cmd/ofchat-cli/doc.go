// Package main provides the entry point for ofchat-cli.
//
// ofchat-cli registers an OfChat account with phone verification, signs
// in and keeps the signed-in session on disk:
//
//	ofchat-cli register --username alice --phone +15551234567
//	ofchat-cli login --identifier alice
//	ofchat-cli -o json whoami
//	ofchat-cli status
package main
