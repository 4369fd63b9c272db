package constants

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ReportStatus
		want     bool
	}{
		{StatusSubmitted, StatusActionTaken, true},
		{StatusSubmitted, StatusIgnored, true},
		{StatusSubmitted, StatusSubmitted, false},
		{StatusSubmitted, StatusPending, false},
		{StatusActionTaken, StatusIgnored, false},
		{StatusActionTaken, StatusSubmitted, false},
		{StatusIgnored, StatusActionTaken, false},
		{StatusPending, StatusActionTaken, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !StatusActionTaken.IsTerminal() {
		t.Error("Action Taken is terminal")
	}
	if !StatusIgnored.IsTerminal() {
		t.Error("Ignored is terminal")
	}
	if StatusSubmitted.IsTerminal() {
		t.Error("Submitted is not terminal")
	}
	if StatusPending.IsTerminal() {
		t.Error("Pending Upload is not terminal")
	}
}

func TestValidRemoteStatus(t *testing.T) {
	for _, s := range []ReportStatus{StatusSubmitted, StatusActionTaken, StatusIgnored} {
		if !ValidRemoteStatus(s) {
			t.Errorf("%s should be storable on the backend", s)
		}
	}
	if ValidRemoteStatus(StatusPending) {
		t.Error("Pending Upload is client-local and must never be stored remotely")
	}
	if ValidRemoteStatus(ReportStatus("Resolved")) {
		t.Error("unknown statuses must be rejected")
	}
}
