package errors

import stdErrors "errors"

// Report is a flattened view of an error chain used for structured logging.
type Report struct {
	Code       Code
	TopMessage string
	Chain      []string
}

// Dump walks the error chain and collects every message for log output.
func Dump(err error) Report {
	report := Report{Code: CodeInternal}
	if err == nil {
		return report
	}
	report.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		report.Code = typed.Code()
	}
	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		report.Chain = append(report.Chain, current.Error())
	}
	return report
}
