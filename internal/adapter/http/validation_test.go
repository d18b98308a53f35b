package http

import "testing"

type validationProbe struct {
	LoanID string  `validate:"required,resourceid"`
	Type   string  `validate:"omitempty,covtype"`
	Status string  `validate:"omitempty,covstatus"`
	Event  string  `validate:"omitempty,eventtype"`
	Score  *int    `validate:"omitempty,gte=0,lte=100"`
	Amount float64 `validate:"omitempty,gt=0"`
}

func TestCustomValidator_AcceptsValidInput(t *testing.T) {
	cv := NewValidator()
	score := 75
	probe := validationProbe{
		LoanID: "ln_1a2b3c4d",
		Type:   "Financial",
		Status: "At Risk",
		Event:  "Covenant Added",
		Score:  &score,
		Amount: 25000000,
	}
	if err := cv.Validate(probe); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestCustomValidator_ResourceID(t *testing.T) {
	cv := NewValidator()
	bad := []string{
		"",            // required
		"ln_",         // missing hex
		"ln_1A2B3C4D", // uppercase hex
		"ln_1a2b3c",   // too short
		"1a2b3c4d",    // no prefix
		"ln-1a2b3c4d", // wrong separator
	}
	for _, id := range bad {
		if err := cv.Validate(validationProbe{LoanID: id}); err == nil {
			t.Errorf("id %q accepted, want rejection", id)
		}
	}
}

func TestCustomValidator_EnumTags(t *testing.T) {
	cv := NewValidator()
	cases := []validationProbe{
		{LoanID: "ln_1a2b3c4d", Type: "Structural"},
		{LoanID: "ln_1a2b3c4d", Status: "Pending"},
		{LoanID: "ln_1a2b3c4d", Event: "loan_refinanced"},
	}
	for i, probe := range cases {
		if err := cv.Validate(probe); err == nil {
			t.Errorf("case %d accepted, want rejection: %+v", i, probe)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	cv := NewValidator()
	score := 250
	err := cv.Validate(validationProbe{LoanID: "nope", Score: &score})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	fields := ToFieldErrors(err)
	byField := map[string]string{}
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}
	if byField["LoanID"] != "must be a valid resource id" {
		t.Errorf("LoanID message=%q", byField["LoanID"])
	}
	if byField["Score"] != "must be less than or equal to 100" {
		t.Errorf("Score message=%q", byField["Score"])
	}
}
