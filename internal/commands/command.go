package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeList   Type = "list"
	TypeSnooze Type = "snooze"
	TypeStop   Type = "stop"
	TypeDelete Type = "delete"
	TypePlay   Type = "play"
	TypeSound  Type = "sound"
	TypeRecur  Type = "recur"
	TypeSet    Type = "set"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a new reminder: when it fires, what it says, and how
// it sounds. Sound names the built-in catalog entry; a trailing "daily"
// keyword makes it recur.
type AddArgs struct {
	When  string
	Title string
	Sound string
	Daily bool
}

type ListArgs struct {
	Scope string // "", "all", or "done"
}

type TargetArgs struct {
	Target string
}

type SoundArgs struct {
	Name string // empty lists the catalog, otherwise previews an entry
}

type SetArgs struct {
	Key   string
	Value string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	List   *ListArgs
	Snooze *TargetArgs
	Stop   *TargetArgs
	Delete *TargetArgs
	Play   *TargetArgs
	Recur  *TargetArgs
	Sound  *SoundArgs
	Set    *SetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeList:
		return parseList(input, args)
	case TypeSnooze:
		return parseTarget(input, TypeSnooze, args)
	case TypeStop:
		return parseTarget(input, TypeStop, args)
	case TypeDelete:
		return parseTarget(input, TypeDelete, args)
	case TypePlay:
		return parseTarget(input, TypePlay, args)
	case TypeRecur:
		return parseTarget(input, TypeRecur, args)
	case TypeSound:
		return parseSound(input, args)
	case TypeSet:
		return parseSet(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads `add <when> <title...> [sound:<name>] [daily]`. The
// sound and daily markers may appear anywhere after the time; the rest
// of the words form the title.
func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a time and a title"}
	}
	out := AddArgs{When: args[0]}
	var titleWords []string
	for _, arg := range args[1:] {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "sound:"):
			out.Sound = strings.TrimSpace(arg[len("sound:"):])
		case lower == "daily":
			out.Daily = true
		default:
			titleWords = append(titleWords, arg)
		}
	}
	out.Title = strings.Join(titleWords, " ")
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseList(raw string, args []string) (Command, error) {
	scope := ""
	if len(args) > 0 {
		scope = strings.ToLower(args[0])
		if scope != "all" && scope != "done" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown list scope: %s", args[0])}
		}
	}
	return Command{Type: TypeList, Raw: raw, List: &ListArgs{Scope: scope}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a reminder", typ)}
	}
	target := &TargetArgs{Target: args[0]}
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeSnooze:
		cmd.Snooze = target
	case TypeStop:
		cmd.Stop = target
	case TypeDelete:
		cmd.Delete = target
	case TypePlay:
		cmd.Play = target
	case TypeRecur:
		cmd.Recur = target
	}
	return cmd, nil
}

func parseSound(raw string, args []string) (Command, error) {
	return Command{Type: TypeSound, Raw: raw, Sound: &SoundArgs{Name: strings.Join(args, " ")}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires a key and a value"}
	}
	key := strings.ToLower(args[0])
	switch key {
	case "notifications", "sound", "dark":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown setting: %s", args[0])}
	}
	value := strings.ToLower(args[1])
	if value != "on" && value != "off" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "setting value must be on or off"}
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Key: key, Value: value}}, nil
}
