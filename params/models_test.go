package params

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{"valid", Params{Creator: "creator", PeriodLength: 5}, nil},
		{"zero price is allowed", Params{Creator: "creator", PeriodLength: 1}, nil},
		{"missing creator", Params{Creator: "  ", PeriodLength: 5}, errNoCreator},
		{"zero period", Params{Creator: "creator"}, errNoPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Validate(); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsCreator(t *testing.T) {
	p := Params{Creator: "creator", PeriodLength: 5}

	if !p.IsCreator("creator") {
		t.Error("creator not recognised")
	}
	if p.IsCreator("alice") {
		t.Error("alice recognised as creator")
	}

	empty := Params{}
	if empty.IsCreator("") {
		t.Error("empty account matched empty creator")
	}
}
