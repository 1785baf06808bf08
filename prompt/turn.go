package prompt

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeChat and TypeBrowser classify dialogue turns: chat turns carry an
// utterance, browser turns carry an action intent with arguments.
const (
	TypeChat    = "chat"
	TypeBrowser = "browser"
)

// Arg is one named argument of an action turn. Numeric arguments render
// unquoted; everything else is quoted.
type Arg struct {
	Key     string
	Value   string
	Numeric bool
}

// Turn is one step of a session: either an instructor/navigator utterance or
// a browser action.
type Turn struct {
	// Type is TypeChat or TypeBrowser.
	Type string

	// Speaker is who produced a chat turn ("instructor" or "navigator").
	Speaker string

	// Utterance is the chat turn's text.
	Utterance string

	// Timestamp is seconds since the session start.
	Timestamp float64

	// Intent names a browser action ("click", "load", "say", ...).
	Intent string

	// Args are the action's ordered arguments.
	Args []Arg
}

// ChatTurn builds an utterance turn.
func ChatTurn(speaker, utterance string, timestamp float64) Turn {
	return Turn{
		Type:      TypeChat,
		Speaker:   speaker,
		Utterance: utterance,
		Timestamp: timestamp,
	}
}

// ActionTurn builds a browser-action turn.
func ActionTurn(intent string, timestamp float64, args ...Arg) Turn {
	return Turn{
		Type:      TypeBrowser,
		Intent:    intent,
		Timestamp: timestamp,
		Args:      args,
	}
}

// FormatTimestamp renders seconds since session start as "mm:ss".
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatTurn renders a turn as an intent call: `click(uid="abc")`. Chat
// turns render as a say intent carrying speaker and utterance.
func FormatTurn(t Turn) string {
	return renderCall(turnCall(t))
}

func renderCall(intent string, args []Arg) string {
	var b strings.Builder
	b.WriteString(intent)
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Key)
		b.WriteString("=")
		if a.Numeric {
			b.WriteString(a.Value)
		} else {
			b.WriteString(strconv.Quote(a.Value))
		}
	}
	b.WriteString(")")
	return b.String()
}
