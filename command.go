package main

import (
	"strconv"
	"strings"
)

const (
	usageReply = "Usage: /reply <userId> <message>"
	usageFile  = "Usage: /file <userId> [caption]\nThen upload the document or photo in the next message."
	usageFile2 = "Usage: /file2 <userId> [caption]\nThen upload the next two documents or photos."
)

// Command is one parsed operator instruction.
type Command interface{ isCommand() }

// RelayCommand sends a plain text message to a user as the bot.
type RelayCommand struct {
	UserID int64
	Text   string
}

// StageCommand declares which user receives the operator's next Count files.
type StageCommand struct {
	UserID  int64
	Caption string
	Count   int
}

// UnknownCommand is any leading-slash text the parser does not recognize.
type UnknownCommand struct {
	Name string
}

func (RelayCommand) isCommand()   {}
func (StageCommand) isCommand()   {}
func (UnknownCommand) isCommand() {}

// usageError carries the usage text to echo back to the operator when a
// known command has malformed arguments.
type usageError struct {
	usage string
}

func (e *usageError) Error() string { return e.usage }

// parseCommand turns raw operator text into a tagged Command. The error, if
// any, is always a *usageError for a recognized command with bad arguments.
func parseCommand(text string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return UnknownCommand{}, nil
	}
	name := strings.ToLower(fields[0])
	// The command may carry a bot mention suffix, e.g. /reply@SomeBot.
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}

	switch name {
	case "/reply":
		if len(fields) < 3 {
			return nil, &usageError{usage: usageReply}
		}
		userID, err := parseUserID(fields[1])
		if err != nil {
			return nil, &usageError{usage: usageReply}
		}
		return RelayCommand{UserID: userID, Text: strings.Join(fields[2:], " ")}, nil
	case "/file", "/file2":
		if len(fields) < 2 {
			return nil, &usageError{usage: stageUsage(name)}
		}
		userID, err := parseUserID(fields[1])
		if err != nil {
			return nil, &usageError{usage: stageUsage(name)}
		}
		count := 1
		if name == "/file2" {
			count = 2
		}
		return StageCommand{
			UserID:  userID,
			Caption: strings.Join(fields[2:], " "),
			Count:   count,
		}, nil
	default:
		return UnknownCommand{Name: name}, nil
	}
}

func stageUsage(name string) string {
	if name == "/file2" {
		return usageFile2
	}
	return usageFile
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
