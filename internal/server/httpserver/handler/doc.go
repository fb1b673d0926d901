// Package handler provides the HTTP handlers of ofchat-devserver.
//
// /sms and /auth speak the action protocol: the operation is named by the
// "action" query parameter, bodies are JSON, successful replies carry
// "success": true and failures carry {"error": reason, "code": code} with
// the HTTP status encoded in the code.
package handler
