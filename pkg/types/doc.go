// Package types defines the Answer Set, the field and error-code vocabulary,
// and the service configuration shared by every tradecheck package.
//
// An Answer Set is the flat set of wizard answers carried in the query string
// from page to page. It is a value: every change returns a new Answers.
package types
