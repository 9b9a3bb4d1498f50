package cli

import "fmt"

type positionArgError struct {
	arg string
}

func (e positionArgError) Error() string {
	return fmt.Sprintf("invalid position %q: expected a non-negative integer", e.arg)
}

func errPositionArg(arg string) error {
	return positionArgError{arg: arg}
}
