package uid

import "fmt"

type lengthError int

func errInvalidLength(n int) error {
	return lengthError(n)
}

func (e lengthError) Error() string {
	return fmt.Sprintf("uid: invalid binary length %d, want 16", int(e))
}
