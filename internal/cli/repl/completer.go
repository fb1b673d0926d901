package repl

import "strings"

// Completer suggests prompt commands.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer for the given commands. Without
// arguments it knows the verification prompt commands.
func NewCompleter(commands ...string) *Completer {
	if len(commands) == 0 {
		commands = []string{CommandResend, CommandBack, CommandHelp}
	}
	return &Completer{commands: commands}
}

// Complete returns the commands starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns every known command.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}
