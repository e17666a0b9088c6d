package handler

import (
	"testing"

	"github.com/iliyamo/space-rental/internal/model"
	"github.com/iliyamo/space-rental/internal/repository"
)

func TestSubmitCheck(t *testing.T) {
	cases := []struct {
		name        string
		owner       uint64
		caller      uint64
		status      model.PropertyStatus
		wantAlready bool
		wantErr     error
	}{
		{"owner submits draft", 7, 7, model.PropertyDraft, false, nil},
		{"owner resubmits inactive", 7, 7, model.PropertyInactive, false, nil},
		{"owner repeats on pending", 7, 7, model.PropertyPending, true, nil},
		{"owner repeats on active", 7, 7, model.PropertyActive, true, nil},
		{"non-owner on draft", 7, 9, model.PropertyDraft, false, repository.ErrForbidden},
		{"non-owner on active", 7, 9, model.PropertyActive, false, repository.ErrForbidden},
		{"non-owner on pending", 7, 9, model.PropertyPending, false, repository.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &model.Property{LandlordID: tc.owner, Status: tc.status}
			already, err := submitCheck(p, tc.caller)
			if err != tc.wantErr {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
			if already != tc.wantAlready {
				t.Fatalf("got already=%v, want %v", already, tc.wantAlready)
			}
			// The moderation state must never leak to a non-owner.
			if tc.wantErr != nil && already {
				t.Fatalf("non-owner request reported submission state")
			}
		})
	}
}
