package prompt

import (
	"strings"
)

// NoUtterance is returned when the turns contain no chat turn to format.
const NoUtterance = "No instructor utterance"

// DefaultTurnSep joins formatted previous turns.
const DefaultTurnSep = " ; "

// DefaultNumPrevTurns bounds how many previous turns are included.
const DefaultNumPrevTurns = 5

// DefaultNumUtterances bounds how many utterances are included.
const DefaultNumUtterances = 5

// turnCall normalizes a turn to an intent name and argument list. Chat turns
// become a say intent so every turn truncates and renders the same way.
func turnCall(t Turn) (string, []Arg) {
	if t.Type == TypeChat {
		return "say", []Arg{
			{Key: "speaker", Value: t.Speaker},
			{Key: "utterance", Value: t.Utterance},
		}
	}
	args := append([]Arg(nil), t.Args...)
	return t.Intent, args
}

// utteranceLines selects and renders the chat turns as "[mm:ss] utterance"
// lines. When there are more chat turns than max, the first one and the last
// max are kept: the opening request anchors the task and the tail carries
// the current context.
func utteranceLines(turns []Turn, max int) []string {
	if max <= 0 {
		max = DefaultNumUtterances
	}

	var chats []Turn
	for _, t := range turns {
		if t.Type == TypeChat {
			chats = append(chats, t)
		}
	}
	if len(chats) == 0 {
		return nil
	}

	selected := chats
	if len(chats) > max {
		selected = make([]Turn, 0, max+1)
		selected = append(selected, chats[0])
		selected = append(selected, chats[len(chats)-max:]...)
	}

	lines := make([]string, len(selected))
	for i, t := range selected {
		lines[i] = "[" + FormatTimestamp(t.Timestamp) + "] " + t.Utterance
	}
	return lines
}

// FormatUtterances renders up to max+1 chat utterances, space-joined, each
// tagged with its minute timestamp. With no chat turns present it returns
// NoUtterance so the downstream prompt never has an empty section.
func FormatUtterances(turns []Turn, max int) string {
	lines := utteranceLines(turns, max)
	if lines == nil {
		return NoUtterance
	}
	return strings.Join(lines, " ")
}

// prevWindow returns the last numPrevTurns turns.
func prevWindow(turns []Turn, numPrevTurns int) []Turn {
	if numPrevTurns <= 0 {
		numPrevTurns = DefaultNumPrevTurns
	}
	if len(turns) > numPrevTurns {
		turns = turns[len(turns)-numPrevTurns:]
	}
	return turns
}

// FormatPrevTurns renders the last numPrevTurns turns as intent calls joined
// by turnSep. An empty turnSep means DefaultTurnSep.
func FormatPrevTurns(turns []Turn, numPrevTurns int, turnSep string) string {
	if turnSep == "" {
		turnSep = DefaultTurnSep
	}
	window := prevWindow(turns, numPrevTurns)
	formatted := make([]string, len(window))
	for i, t := range window {
		formatted[i] = FormatTurn(t)
	}
	return strings.Join(formatted, turnSep)
}
