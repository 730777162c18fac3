package testing

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ContainsInOrder checks if the output contains all specified strings in order.
func ContainsInOrder(output string, expected ...string) bool {
	lastIndex := 0
	for _, exp := range expected {
		index := strings.Index(output[lastIndex:], exp)
		if index == -1 {
			return false
		}
		lastIndex += index + len(exp)
	}
	return true
}

// RunCmd executes cmd and returns the messages it produced, flattening
// batches. Spinner ticks are dropped so tests never wait on animation timers.
func RunCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, RunCmd(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// Settle feeds every message produced by cmd back into m until no command
// remains, returning the final model.
func Settle[M any](m M, cmd tea.Cmd, update func(M, tea.Msg) (M, tea.Cmd)) M {
	for _, msg := range RunCmd(cmd) {
		var next tea.Cmd
		m, next = update(m, msg)
		m = Settle(m, next, update)
	}
	return m
}
