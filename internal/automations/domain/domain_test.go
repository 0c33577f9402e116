package domain

import "testing"

func TestUrgencyBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want Urgency
	}{
		{0, UrgencyCritical},
		{2, UrgencyCritical},
		{3, UrgencyHigh},
		{4, UrgencyHigh},
		{5, UrgencyMedium},
		{7, UrgencyMedium},
		{8, UrgencyLow},
	}

	for _, tc := range cases {
		if got := UrgencyFor(tc.days); got != tc.want {
			t.Errorf("UrgencyFor(%d) = %s, want %s", tc.days, got, tc.want)
		}
	}
}

func TestTerminalStages(t *testing.T) {
	for _, s := range []Stage{StageSigned, StageLost} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
		if (Deal{Stage: s}).IsActive() {
			t.Errorf("expected %s deal to be inactive", s)
		}
	}
	for _, s := range []Stage{StageProspect, StagePitched, StageNegotiating, StageVerbalYes, StageContractSent} {
		if s.IsTerminal() {
			t.Errorf("expected %s to be open", s)
		}
	}
}
