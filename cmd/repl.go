package cmd

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/rami3l/loxvm/vm"
	"github.com/sirupsen/logrus"
)

// REPL reads expressions line by line and prints their values to out.
// Errors are logged and the session continues.
func REPL(vm_ *vm.VM, prompt string, out io.Writer) error {
	reader, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		line, err := reader.Readline()
		switch err {
		case nil:
			if line == "" {
				return nil
			}
		case readline.ErrInterrupt: // ^C
			continue
		case io.EOF: // ^D
			return nil
		default:
			return err
		}

		val, err := vm_.Interpret(line)
		if err != nil {
			logrus.Error(err)
			continue
		}
		fmt.Fprintln(out, val)
	}
}
