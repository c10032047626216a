// Package command recognizes imperative utterances that should be handed to
// a command dispatcher instead of the conversational pipeline. It only
// extracts; nothing here executes anything.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"deskmate/internal/textmatch"
)

// Command is an extracted command name with string parameters.
type Command struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

const (
	NameCalculator  = "calculator"
	NameExplorer    = "explorer"
	NameTaskManager = "taskmanager"
	NameSettings    = "settings"
	NameLaunch      = "launch"
	NameShutdown    = "shutdown"
)

const politePrefix = `^(?:please\s+)?(?:(?:can|could|would|will)\s+you\s+)?(?:please\s+)?`

var (
	launchPattern = regexp.MustCompile(politePrefix +
		`(?:open|launch|start|run)\s+(?:up\s+)?(?:the\s+|my\s+|a\s+|an\s+)?` +
		`([a-z0-9][a-z0-9 ._-]*?)` +
		`(?:\s+(?:app|application|program))?(?:\s+(?:for me|now))?(?:\s*,?\s*please)?\s*[.!?]*$`)
	shutdownPattern = regexp.MustCompile(politePrefix +
		`(?:shut\s*down|turn\s+off)(?:\s+(?:the\s+|my\s+)?(?:computer|pc|system|machine))?` +
		`(?:\s+in\s+(\d+)\s*(second|sec|minute|min|hour|hr)s?)?(?:\s*,?\s*please)?\s*[.!?]*$`)
)

var aliases = map[string]string{
	"calc":          NameCalculator,
	"calculator":    NameCalculator,
	"explorer":      NameExplorer,
	"file explorer": NameExplorer,
	"file manager":  NameExplorer,
	"files":         NameExplorer,
	"task manager":  NameTaskManager,
	"taskmanager":   NameTaskManager,
	"taskmgr":       NameTaskManager,
	"settings":      NameSettings,
	"control panel": NameSettings,
}

var unitSeconds = map[string]int{
	"second": 1, "sec": 1,
	"minute": 60, "min": 60,
	"hour": 3600, "hr": 3600,
}

// Extract reports whether utterance is a command and, if so, which one.
func Extract(utterance string) (Command, bool) {
	text := textmatch.Normalize(utterance)
	if text == "" {
		return Command{}, false
	}

	if m := shutdownPattern.FindStringSubmatch(text); m != nil {
		cmd := Command{Name: NameShutdown}
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Command{}, false
			}
			cmd.Params = map[string]string{"delay": strconv.Itoa(n * unitSeconds[m[2]])}
		}
		return cmd, true
	}

	if m := launchPattern.FindStringSubmatch(text); m != nil {
		target := strings.TrimSpace(m[1])
		if name, ok := aliases[target]; ok {
			return Command{Name: name}, true
		}
		return Command{Name: NameLaunch, Params: map[string]string{"app": target}}, true
	}
	return Command{}, false
}
