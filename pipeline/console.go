package pipeline

import (
	"fmt"
	"io"
)

// Console lines written to the user.
const (
	PromptSpeak = "Speak!"
	PromptRetry = "I didn't catch that. What did you say?"
)

type console struct {
	w io.Writer
}

func (c console) speak() {
	fmt.Fprintln(c.w, PromptSpeak)
}

func (c console) retry() {
	fmt.Fprintln(c.w, PromptRetry)
	fmt.Fprintln(c.w)
}

func (c console) error(msg string) {
	fmt.Fprintf(c.w, "ERROR: %s\n", msg)
}

func (c console) heard(text string) {
	fmt.Fprintf(c.w, "You said: %s\n", text)
}

func (c console) translated(text string) {
	fmt.Fprintf(c.w, "Translation: %s\n", text)
}
