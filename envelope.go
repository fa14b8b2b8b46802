package citydesk

import (
	"encoding/json"
	"fmt"
)

// Status indicates whether a tool invocation succeeded.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Envelope is the uniform result of a tool invocation. It is a sum type:
// exactly one of report or error message is populated, determined by status.
// The zero value is not a valid Envelope; construct with [Success] or
// [Failure].
type Envelope struct {
	status Status
	report string
	errMsg string
}

// Success returns a success Envelope carrying a report string.
func Success(report string) Envelope {
	return Envelope{status: StatusSuccess, report: report}
}

// Failure returns an error Envelope carrying a human-readable cause.
func Failure(message string) Envelope {
	return Envelope{status: StatusError, errMsg: message}
}

// Failuref returns an error Envelope with a formatted cause.
func Failuref(format string, args ...any) Envelope {
	return Failure(fmt.Sprintf(format, args...))
}

// Status returns the envelope's status.
func (e Envelope) Status() Status { return e.status }

// IsError reports whether the envelope carries an error.
func (e Envelope) IsError() bool { return e.status == StatusError }

// Report returns the success payload. Empty unless Status is StatusSuccess.
func (e Envelope) Report() string { return e.report }

// ErrorMessage returns the failure cause. Empty unless Status is StatusError.
func (e Envelope) ErrorMessage() string { return e.errMsg }

// Text returns the narratable content of the envelope regardless of status:
// the report on success, the error message on error.
func (e Envelope) Text() string {
	if e.status == StatusError {
		return e.errMsg
	}
	return e.report
}

// Response renders the envelope as the map sent back to the model as a
// function response.
func (e Envelope) Response() map[string]any {
	if e.status == StatusError {
		return map[string]any{"status": string(StatusError), "error_message": e.errMsg}
	}
	return map[string]any{"status": string(StatusSuccess), "report": e.report}
}

// envelopeDTO is the JSON wire shape.
type envelopeDTO struct {
	Status       Status `json:"status"`
	Report       string `json:"report,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	switch e.status {
	case StatusSuccess:
		return json.Marshal(envelopeDTO{Status: StatusSuccess, Report: e.report})
	case StatusError:
		return json.Marshal(envelopeDTO{Status: StatusError, ErrorMessage: e.errMsg})
	default:
		return nil, fmt.Errorf("invalid envelope status %q: %w", e.status, ErrValidation)
	}
}

// UnmarshalJSON implements json.Unmarshaler. It rejects payloads where the
// populated field does not match the status.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var dto envelopeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	switch dto.Status {
	case StatusSuccess:
		if dto.ErrorMessage != "" {
			return fmt.Errorf("success envelope carries error_message: %w", ErrValidation)
		}
		*e = Success(dto.Report)
	case StatusError:
		if dto.Report != "" {
			return fmt.Errorf("error envelope carries report: %w", ErrValidation)
		}
		if dto.ErrorMessage == "" {
			return fmt.Errorf("error envelope missing error_message: %w", ErrValidation)
		}
		*e = Failure(dto.ErrorMessage)
	default:
		return fmt.Errorf("unknown envelope status %q: %w", dto.Status, ErrValidation)
	}
	return nil
}
