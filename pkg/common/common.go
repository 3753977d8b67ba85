// 18 Oct 2026

package common

import (
	"os"

	"github.com/pkg/errors"
)

// Exit codes for the commands.
const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	fTmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", errors.Wrap(err, "tempfile fail")
	}
	defer fTmp.Close()
	if _, err := fTmp.WriteString(s); err != nil {
		return "", errors.Wrapf(err, "writing string to temp file %v", fTmp.Name())
	}
	return fTmp.Name(), nil
}
