// Package validate holds the field validators of the questionnaire.
//
// Each validator inspects one answer (or the three parts of a date) and
// returns a types.ErrorCode; types.CodeNone means the value passed. The
// validators are pure: the current day and any lookups are passed in.
package validate
