// internal/console/input.go
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInputClosed is returned when the input stream ends.
var ErrInputClosed = errors.New("console: input closed")

// Input reads prompted values line by line. Invalid values are reported and asked for again.
type Input struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInput creates an Input over r, writing prompts to w.
func NewInput(r io.Reader, w io.Writer) *Input {
	return &Input{in: bufio.NewReader(r), out: w}
}

func (i *Input) println(a ...interface{}) {
	_, _ = fmt.Fprintln(i.out, a...)
}

func (i *Input) readLine() (string, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadOperationType prompts until a known operation name is entered.
func (i *Input) ReadOperationType() (OperationType, error) {
	for {
		i.println("Enter command:")
		value, err := i.readLine()
		if err != nil {
			return "", err
		}
		if value == "" {
			i.println("Error: command must not be blank")
			i.PrintAvailableCommands()
			continue
		}
		op := OperationType(strings.ToUpper(value))
		if !op.Valid() {
			i.println("Error: unknown command")
			i.PrintAvailableCommands()
			continue
		}
		return op, nil
	}
}

// ReadRequiredString prompts until a non-blank value is entered.
func (i *Input) ReadRequiredString(prompt, field string) (string, error) {
	for {
		i.println(prompt)
		value, err := i.readLine()
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		i.println("Error: " + field + " must not be blank")
	}
}

// ReadPositiveInt prompts until a number greater than zero is entered.
func (i *Input) ReadPositiveInt(prompt, field string) (int64, error) {
	for {
		i.println(prompt)
		value, err := i.readLine()
		if err != nil {
			return 0, err
		}
		if value == "" {
			i.println("Error: " + field + " must not be blank")
			continue
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			i.println("Error: " + field + " must be a number")
			continue
		}
		if parsed <= 0 {
			i.println("Error: " + field + " must be > 0")
			continue
		}
		return parsed, nil
	}
}

// PrintAvailableCommands lists every operation name.
func (i *Input) PrintAvailableCommands() {
	names := make([]string, 0, len(operationTypes))
	for _, op := range operationTypes {
		names = append(names, string(op))
	}
	i.println("Available commands: " + strings.Join(names, ", "))
}
