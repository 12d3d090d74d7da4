package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-formwizard/pkg/auth"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage prefers the user-facing text of account errors.
func errorMessage(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return authErr.Notice()
	}
	return err.Error()
}
