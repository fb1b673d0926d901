// Package output renders ofchat-cli results.
//
// Sessions and status rows are printed as an aligned table, JSON or YAML
// depending on --output. Spinner animates stderr while a service call is
// in flight.
package output
