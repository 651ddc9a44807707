package ir

import "fmt"

// ValidationError reports a structural problem with a Module. Code
// distinguishes malformed input from constructs the engine cannot analyse.
type ValidationError struct {
	Code ErrorCode
	Msg  string
	Span Span
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ErrorCode mirrors the result-document reason taxonomy: a module fails
// validation either because it is malformed (InvalidInput) or because it
// uses a construct outside the supported subset (Unsupported).
type ErrorCode int

const (
	InvalidInput ErrorCode = iota
	Unsupported
)

// Validate checks a Module for internal consistency: no duplicate channel
// or process names, every referenced channel and process name declared,
// every payload value within its channel's declared range, every
// assertion's target/spec/impl process declared, and every refinement
// assertion naming a supported Model. It does not check recursion
// structure; transitionsOf enforces the depth guard for unguarded
// recursion at exploration time.
func Validate(m *Module) error {
	channels := make(map[string]Channel, len(m.Channels))
	for _, c := range m.Channels {
		if _, dup := channels[c.Name]; dup {
			return &ValidationError{Code: InvalidInput, Span: c.Span,
				Msg: fmt.Sprintf("ir: duplicate channel declaration %q", c.Name)}
		}
		channels[c.Name] = c
	}

	processes := make(map[string]ProcessDecl, len(m.Processes))
	for _, p := range m.Processes {
		if _, dup := processes[p.Name]; dup {
			return &ValidationError{Code: InvalidInput, Span: p.Span,
				Msg: fmt.Sprintf("ir: duplicate process declaration %q", p.Name)}
		}
		processes[p.Name] = p
	}

	for _, p := range m.Processes {
		if err := validateProc(&p.Body, channels, processes); err != nil {
			return err
		}
	}

	if m.Entry != "" {
		if _, ok := processes[m.Entry]; !ok {
			return &ValidationError{Code: InvalidInput,
				Msg: fmt.Sprintf("ir: entry process %q is not declared", m.Entry)}
		}
	}

	for _, a := range m.Assertions {
		if err := validateAssertion(&a, processes); err != nil {
			return err
		}
	}

	return nil
}

func validateProc(e *ProcExpr, channels map[string]Channel, processes map[string]ProcessDecl) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case KindStop:
		return nil

	case KindPrefix:
		if e.Event == nil {
			return &ValidationError{Code: InvalidInput, Span: e.Span, Msg: "ir: prefix node missing event"}
		}
		if err := validateEvent(e.Event, channels); err != nil {
			return err
		}
		return validateProc(e.Next, channels, processes)

	case KindExternalChoice, KindInternalChoice, KindInterleave, KindParallel:
		if e.Left == nil || e.Right == nil {
			return &ValidationError{Code: InvalidInput, Span: e.Span,
				Msg: fmt.Sprintf("ir: %s node requires left and right operands", e.Kind)}
		}
		if e.Kind == KindParallel {
			for _, name := range e.Sync {
				if _, ok := channels[name]; !ok {
					return &ValidationError{Code: InvalidInput, Span: e.Span,
						Msg: fmt.Sprintf("ir: parallel sync set references undeclared channel %q", name)}
				}
			}
		}
		if err := validateProc(e.Left, channels, processes); err != nil {
			return err
		}
		return validateProc(e.Right, channels, processes)

	case KindHide:
		if e.Inner == nil {
			return &ValidationError{Code: InvalidInput, Span: e.Span, Msg: "ir: hide node missing inner process"}
		}
		for _, name := range e.Channels {
			if _, ok := channels[name]; !ok {
				return &ValidationError{Code: InvalidInput, Span: e.Span,
					Msg: fmt.Sprintf("ir: hide set references undeclared channel %q", name)}
			}
		}
		return validateProc(e.Inner, channels, processes)

	case KindRef:
		if _, ok := processes[e.Name]; !ok {
			return &ValidationError{Code: InvalidInput, Span: e.Span,
				Msg: fmt.Sprintf("ir: reference to undeclared process %q", e.Name)}
		}
		return nil

	default:
		return &ValidationError{Code: Unsupported, Span: e.Span,
			Msg: fmt.Sprintf("ir: unsupported process kind %d", e.Kind)}
	}
}

func validateEvent(ev *EventPattern, channels map[string]Channel) error {
	ch, ok := channels[ev.Channel]
	if !ok {
		return &ValidationError{Code: InvalidInput, Span: ev.Span,
			Msg: fmt.Sprintf("ir: event references undeclared channel %q", ev.Channel)}
	}
	switch ev.Payload {
	case PayloadNone:
		if ch.PayloadRange != nil {
			return &ValidationError{Code: InvalidInput, Span: ev.Span,
				Msg: fmt.Sprintf("ir: channel %q declares a payload range but event carries none", ev.Channel)}
		}
	case PayloadConst, PayloadOutput:
		if ch.PayloadRange == nil {
			return &ValidationError{Code: InvalidInput, Span: ev.Span,
				Msg: fmt.Sprintf("ir: channel %q carries no payload but event specifies a value", ev.Channel)}
		}
		if ev.Value < 0 || ev.Value > *ch.PayloadRange {
			return &ValidationError{Code: InvalidInput, Span: ev.Span,
				Msg: fmt.Sprintf("ir: value %d out of range for channel %q (0..%d)", ev.Value, ev.Channel, *ch.PayloadRange)}
		}
	case PayloadInput:
		if ch.PayloadRange == nil {
			return &ValidationError{Code: InvalidInput, Span: ev.Span,
				Msg: fmt.Sprintf("ir: channel %q carries no payload but event binds an input", ev.Channel)}
		}
	default:
		return &ValidationError{Code: Unsupported, Span: ev.Span,
			Msg: fmt.Sprintf("ir: unsupported payload kind %d", ev.Payload)}
	}
	return nil
}

func validateAssertion(a *Assertion, processes map[string]ProcessDecl) error {
	switch a.Kind {
	case AssertionProperty:
		if _, ok := processes[a.Target]; !ok {
			return &ValidationError{Code: InvalidInput, Span: a.Span,
				Msg: fmt.Sprintf("ir: property assertion targets undeclared process %q", a.Target)}
		}
		switch a.Property {
		case PropertyDeadlockFree, PropertyDivergenceFree, PropertyDeterministic:
		default:
			return &ValidationError{Code: Unsupported, Span: a.Span,
				Msg: fmt.Sprintf("ir: unsupported property kind %d", a.Property)}
		}

	case AssertionRefinement:
		if _, ok := processes[a.Spec]; !ok {
			return &ValidationError{Code: InvalidInput, Span: a.Span,
				Msg: fmt.Sprintf("ir: refinement assertion references undeclared spec process %q", a.Spec)}
		}
		if _, ok := processes[a.Impl]; !ok {
			return &ValidationError{Code: InvalidInput, Span: a.Span,
				Msg: fmt.Sprintf("ir: refinement assertion references undeclared impl process %q", a.Impl)}
		}
		switch a.Model {
		case ModelT, ModelF, ModelFD:
		default:
			return &ValidationError{Code: InvalidInput, Span: a.Span,
				Msg: fmt.Sprintf("ir: refinement assertion carries no valid model (got %q)", a.Model)}
		}

	default:
		return &ValidationError{Code: Unsupported, Span: a.Span,
			Msg: fmt.Sprintf("ir: unsupported assertion kind %d", a.Kind)}
	}
	return nil
}
