package ir

// Span is a 1-based inclusive source location, used for explainer back-mapping.
type Span struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// IsZero reports whether the span carries no location information.
func (s Span) IsZero() bool {
	return s == Span{}
}

// PayloadKind classifies the payload segment of a visible event.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadConst
	PayloadOutput
	PayloadInput
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadConst:
		return "const"
	case PayloadOutput:
		return "output"
	case PayloadInput:
		return "input"
	default:
		return "unknown"
	}
}

// Channel declares a channel name and its optional integer payload range
// {0..N}; nil PayloadRange means the channel carries no payload.
type Channel struct {
	Name         string `json:"name"`
	PayloadRange *int   `json:"payload_range,omitempty"`
	Span         Span   `json:"span,omitempty"`
}

// EventPattern describes one visible event offered by a prefix node.
type EventPattern struct {
	Channel string      `json:"channel"`
	Payload PayloadKind `json:"payload"`
	Value   int         `json:"value,omitempty"`
	Span    Span        `json:"span,omitempty"`
}

// ProcKind discriminates the node kinds of the supported process algebra
// subset. ProcExpr is a tagged-variant struct rather than an interface
// hierarchy: only the fields relevant to Kind are populated.
type ProcKind int

const (
	KindStop ProcKind = iota
	KindPrefix
	KindExternalChoice
	KindInternalChoice
	KindInterleave
	KindParallel
	KindHide
	KindRef
)

func (k ProcKind) String() string {
	switch k {
	case KindStop:
		return "stop"
	case KindPrefix:
		return "prefix"
	case KindExternalChoice:
		return "external_choice"
	case KindInternalChoice:
		return "internal_choice"
	case KindInterleave:
		return "interleave"
	case KindParallel:
		return "parallel"
	case KindHide:
		return "hide"
	case KindRef:
		return "ref"
	default:
		return "unknown"
	}
}

// ProcExpr is one node of a process term.
type ProcExpr struct {
	Kind ProcKind `json:"kind"`
	Span Span     `json:"span,omitempty"`

	// KindPrefix
	Event *EventPattern `json:"event,omitempty"`
	Next  *ProcExpr     `json:"next,omitempty"`

	// KindExternalChoice, KindInternalChoice, KindInterleave, KindParallel
	Left  *ProcExpr `json:"left,omitempty"`
	Right *ProcExpr `json:"right,omitempty"`

	// KindParallel only: the interface synchronisation alphabet.
	Sync []string `json:"sync,omitempty"`

	// KindHide
	Inner    *ProcExpr `json:"inner,omitempty"`
	Channels []string  `json:"channels,omitempty"`

	// KindRef
	Name string `json:"name,omitempty"`
}

// ProcessDecl binds a name to a process body.
type ProcessDecl struct {
	Name string   `json:"name"`
	Body ProcExpr `json:"body"`
	Span Span     `json:"span,omitempty"`
}

// AssertionKind discriminates property vs. refinement assertions.
type AssertionKind int

const (
	AssertionProperty AssertionKind = iota
	AssertionRefinement
)

// PropertyKind names a single-process property.
type PropertyKind int

const (
	PropertyDeadlockFree PropertyKind = iota
	PropertyDivergenceFree
	PropertyDeterministic
)

func (p PropertyKind) String() string {
	switch p {
	case PropertyDeadlockFree:
		return "deadlock_free"
	case PropertyDivergenceFree:
		return "divergence_free"
	case PropertyDeterministic:
		return "deterministic"
	default:
		return "unknown"
	}
}

// Model names a refinement semantic model.
type Model int

const (
	ModelNone Model = iota
	ModelT
	ModelF
	ModelFD
)

func (m Model) String() string {
	switch m {
	case ModelT:
		return "T"
	case ModelF:
		return "F"
	case ModelFD:
		return "FD"
	default:
		return ""
	}
}

// ParseModel parses the textual model name used in IR/config/CLI.
func ParseModel(s string) (Model, bool) {
	switch s {
	case "T":
		return ModelT, true
	case "F":
		return ModelF, true
	case "FD":
		return ModelFD, true
	default:
		return ModelNone, false
	}
}

// Assertion names either a property target or a refinement pair.
type Assertion struct {
	Kind AssertionKind `json:"kind"`

	// AssertionProperty
	Target   string       `json:"target,omitempty"`
	Property PropertyKind `json:"property,omitempty"`

	// AssertionRefinement
	Spec  string `json:"spec,omitempty"`
	Impl  string `json:"impl,omitempty"`
	Model Model  `json:"model,omitempty"`

	Span Span `json:"span,omitempty"`
}

// Module is the validated IR consumed by the engine.
type Module struct {
	Channels   []Channel     `json:"channels"`
	Processes  []ProcessDecl `json:"processes"`
	Assertions []Assertion   `json:"assertions"`
	Entry      string        `json:"entry,omitempty"`
}
