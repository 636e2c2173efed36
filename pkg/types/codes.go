package types

// ErrorCode is the page-local validation failure carried in the error
// query parameter. Pages translate it into a message through the locale
// tables, so the URL stays language neutral.
type ErrorCode string

// Codes shared by several pages.
const (
	CodeNone     ErrorCode = ""
	CodeRequired ErrorCode = "required"
	CodeInvalid  ErrorCode = "invalid"
)

// Commodity code failures.
const (
	CodeNumber   ErrorCode = "number"
	CodeDigits   ErrorCode = "digits"
	CodeNotFound ErrorCode = "notFound"
)

// Date failures, listed in precedence order.
const (
	CodeMissingDate         ErrorCode = "missingDate"
	CodeMissingDayAndMonth  ErrorCode = "missingDayAndMonth"
	CodeMissingDayAndYear   ErrorCode = "missingDayAndYear"
	CodeMissingMonthAndYear ErrorCode = "missingMonthAndYear"
	CodeMissingDay          ErrorCode = "missingDay"
	CodeMissingMonth        ErrorCode = "missingMonth"
	CodeMissingYear         ErrorCode = "missingYear"
	CodeNotANumber          ErrorCode = "notANumber"
	CodeInvalidDay          ErrorCode = "invalidDay"
	CodeInvalidMonth        ErrorCode = "invalidMonth"
	CodeInvalidYear         ErrorCode = "invalidYear"
	CodeInThePast           ErrorCode = "inThePast"
	CodeBeyondOneYear       ErrorCode = "beyondOneYear"
)

// OK reports whether the code means the value passed.
func (c ErrorCode) OK() bool {
	return c == CodeNone
}

// String returns the code as carried in the query string.
func (c ErrorCode) String() string {
	return string(c)
}
