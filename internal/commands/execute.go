package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	List   func(ListArgs) (Result, error)
	Snooze func(TargetArgs) (Result, error)
	Stop   func(TargetArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Play   func(TargetArgs) (Result, error)
	Recur  func(TargetArgs) (Result, error)
	Sound  func(SoundArgs) (Result, error)
	Set    func(SetArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeList:
		if handlers.List == nil {
			return Result{}, missing("list")
		}
		return handlers.List(*cmd.List)
	case TypeSnooze:
		if handlers.Snooze == nil {
			return Result{}, missing("snooze")
		}
		return handlers.Snooze(*cmd.Snooze)
	case TypeStop:
		if handlers.Stop == nil {
			return Result{}, missing("stop")
		}
		return handlers.Stop(*cmd.Stop)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete(*cmd.Delete)
	case TypePlay:
		if handlers.Play == nil {
			return Result{}, missing("play")
		}
		return handlers.Play(*cmd.Play)
	case TypeRecur:
		if handlers.Recur == nil {
			return Result{}, missing("recur")
		}
		return handlers.Recur(*cmd.Recur)
	case TypeSound:
		if handlers.Sound == nil {
			return Result{}, missing("sound")
		}
		return handlers.Sound(*cmd.Sound)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing("set")
		}
		return handlers.Set(*cmd.Set)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}
