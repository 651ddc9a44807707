package ir

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders a ProcKind as its lowercase tag name.
func (k ProcKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a ProcKind tag name.
func (k *ProcKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "stop":
		*k = KindStop
	case "prefix":
		*k = KindPrefix
	case "external_choice":
		*k = KindExternalChoice
	case "internal_choice":
		*k = KindInternalChoice
	case "interleave":
		*k = KindInterleave
	case "parallel":
		*k = KindParallel
	case "hide":
		*k = KindHide
	case "ref":
		*k = KindRef
	default:
		return fmt.Errorf("ir: unknown process kind %q", s)
	}
	return nil
}

// MarshalJSON renders a PayloadKind as its lowercase tag name.
func (p PayloadKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a PayloadKind tag name.
func (p *PayloadKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "none", "":
		*p = PayloadNone
	case "const":
		*p = PayloadConst
	case "output":
		*p = PayloadOutput
	case "input":
		*p = PayloadInput
	default:
		return fmt.Errorf("ir: unknown payload kind %q", s)
	}
	return nil
}

// MarshalJSON renders a PropertyKind as its wire tag name.
func (p PropertyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a PropertyKind wire tag name.
func (p *PropertyKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "deadlock_free":
		*p = PropertyDeadlockFree
	case "divergence_free":
		*p = PropertyDivergenceFree
	case "deterministic":
		*p = PropertyDeterministic
	default:
		return fmt.Errorf("ir: unknown property kind %q", s)
	}
	return nil
}

// MarshalJSON renders a Model as its wire tag name ("" for ModelNone).
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a Model wire tag name.
func (m *Model) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*m = ModelNone
		return nil
	}
	parsed, ok := ParseModel(s)
	if !ok {
		return fmt.Errorf("ir: unknown model %q", s)
	}
	*m = parsed
	return nil
}

// MarshalJSON renders an AssertionKind as its wire tag name.
func (k AssertionKind) MarshalJSON() ([]byte, error) {
	switch k {
	case AssertionProperty:
		return json.Marshal("property")
	case AssertionRefinement:
		return json.Marshal("refinement")
	default:
		return nil, fmt.Errorf("ir: unknown assertion kind %d", k)
	}
}

// UnmarshalJSON parses an AssertionKind wire tag name.
func (k *AssertionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "property":
		*k = AssertionProperty
	case "refinement":
		*k = AssertionRefinement
	default:
		return fmt.Errorf("ir: unknown assertion kind %q", s)
	}
	return nil
}
