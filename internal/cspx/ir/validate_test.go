package ir

import "testing"

func rangePtr(n int) *int { return &n }

func validModule() *Module {
	return &Module{
		Channels: []Channel{
			{Name: "a"},
			{Name: "b", PayloadRange: rangePtr(2)},
		},
		Processes: []ProcessDecl{
			{Name: "P", Body: ProcExpr{
				Kind:  KindPrefix,
				Event: &EventPattern{Channel: "a", Payload: PayloadNone},
				Next:  &ProcExpr{Kind: KindRef, Name: "Q"},
			}},
			{Name: "Q", Body: ProcExpr{Kind: KindStop}},
		},
		Assertions: []Assertion{
			{Kind: AssertionProperty, Target: "P", Property: PropertyDeadlockFree},
			{Kind: AssertionRefinement, Spec: "P", Impl: "Q", Model: ModelT},
		},
		Entry: "P",
	}
}

func TestValidateAcceptsWellFormedModule(t *testing.T) {
	if err := Validate(validModule()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsDuplicateChannel(t *testing.T) {
	m := validModule()
	m.Channels = append(m.Channels, Channel{Name: "a"})
	err := Validate(m)
	if err == nil {
		t.Fatal("expected error for duplicate channel")
	}
	if ve := err.(*ValidationError); ve.Code != InvalidInput {
		t.Fatalf("expected InvalidInput, got %v", ve.Code)
	}
}

func TestValidateRejectsDuplicateProcess(t *testing.T) {
	m := validModule()
	m.Processes = append(m.Processes, ProcessDecl{Name: "P", Body: ProcExpr{Kind: KindStop}})
	if err := Validate(m); err == nil {
		t.Fatal("expected error for duplicate process")
	}
}

func TestValidateRejectsUndeclaredChannel(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{
		Kind:  KindPrefix,
		Event: &EventPattern{Channel: "missing", Payload: PayloadNone},
		Next:  &ProcExpr{Kind: KindStop},
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected error for undeclared channel reference")
	}
}

func TestValidateRejectsUndeclaredProcessRef(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{Kind: KindRef, Name: "Nope"}
	if err := Validate(m); err == nil {
		t.Fatal("expected error for undeclared process reference")
	}
}

func TestValidateRejectsPayloadOutOfRange(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{
		Kind:  KindPrefix,
		Event: &EventPattern{Channel: "b", Payload: PayloadConst, Value: 5},
		Next:  &ProcExpr{Kind: KindStop},
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected error for out-of-range payload value")
	}
}

func TestValidateRejectsPayloadMismatch(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{
		Kind:  KindPrefix,
		Event: &EventPattern{Channel: "a", Payload: PayloadConst, Value: 0},
		Next:  &ProcExpr{Kind: KindStop},
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected error: channel a carries no payload")
	}
}

func TestValidateRejectsUndeclaredSyncChannel(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{
		Kind:  KindParallel,
		Left:  &ProcExpr{Kind: KindStop},
		Right: &ProcExpr{Kind: KindStop},
		Sync:  []string{"missing"},
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected error for undeclared sync channel")
	}
}

func TestValidateRejectsUndeclaredHideChannel(t *testing.T) {
	m := validModule()
	m.Processes[1].Body = ProcExpr{
		Kind:     KindHide,
		Inner:    &ProcExpr{Kind: KindStop},
		Channels: []string{"missing"},
	}
	if err := Validate(m); err == nil {
		t.Fatal("expected error for undeclared hide channel")
	}
}

func TestValidateRejectsUnknownEntry(t *testing.T) {
	m := validModule()
	m.Entry = "Nope"
	if err := Validate(m); err == nil {
		t.Fatal("expected error for unknown entry process")
	}
}

func TestValidateRejectsPropertyOnUndeclaredTarget(t *testing.T) {
	m := validModule()
	m.Assertions[0].Target = "Nope"
	if err := Validate(m); err == nil {
		t.Fatal("expected error for property assertion on undeclared target")
	}
}

func TestValidateRejectsRefinementMissingModel(t *testing.T) {
	m := validModule()
	m.Assertions[1].Model = ModelNone
	if err := Validate(m); err == nil {
		t.Fatal("expected error for refinement assertion without a model")
	}
}

func TestValidateRejectsRefinementUndeclaredImpl(t *testing.T) {
	m := validModule()
	m.Assertions[1].Impl = "Nope"
	if err := Validate(m); err == nil {
		t.Fatal("expected error for refinement assertion on undeclared impl")
	}
}
