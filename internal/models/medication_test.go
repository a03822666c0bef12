package models

import "testing"

func TestMedicationScheduleTimes(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		want     []string
		wantErr  bool
	}{
		{"single time", `["08:00"]`, []string{"08:00"}, false},
		{"multiple times", `["08:00","20:00"]`, []string{"08:00", "20:00"}, false},
		{"empty array", `[]`, nil, false},
		{"not json", `twice a day`, nil, true},
		{"wrong shape", `{"morning":"08:00"}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Medication{ID: 1, Schedule: tt.schedule}
			got, err := m.ScheduleTimes()
			if tt.wantErr {
				if err == nil {
					t.Fatal("ScheduleTimes() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ScheduleTimes() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ScheduleTimes() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("ScheduleTimes()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
