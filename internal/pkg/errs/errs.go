package errs

import (
	"errors"
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Errorf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

// Mark associates a sentinel with err. The sentinel is attached both as a
// cockroachdb mark (for barrier-crossing comparisons) and through the stdlib
// Is contract, so callers can match it with plain errors.Is. A bare cr.Mark
// is not enough: its wrapper unwraps to the cause only, hiding the sentinel
// from the standard chain walk.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return &marked{cause: cr.Mark(err, markErr), mark: markErr}
}

type marked struct {
	cause error
	mark  error
}

func (e *marked) Error() string { return e.cause.Error() }
func (e *marked) Unwrap() error { return e.cause }

func (e *marked) Is(target error) bool {
	return target == e.mark || errors.Is(e.mark, target)
}

func (e *marked) Format(s fmt.State, verb rune) {
	if f, ok := e.cause.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprintf(s, "%v", e.cause)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
