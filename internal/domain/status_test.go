package domain

import (
	"reflect"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    Status
		wantErr bool
	}{
		{"REQUESTED", StatusRequested, false},
		{"preparing", StatusPreparing, false},
		{"Ready", StatusReady, false},
		{" fulfilled ", StatusFulfilled, false},
		{"CANCELLED", StatusCancelled, false},
		{"bogus", "", true},
		{"", "", true},
		{"DONE", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestActiveStatusesExcludeTerminal(t *testing.T) {
	want := []Status{StatusRequested, StatusPreparing, StatusReady}
	if got := ActiveStatuses(); !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveStatuses() = %v, want %v", got, want)
	}
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Status
	}{
		{"single", "READY", []Status{StatusReady}},
		{"mixed case", "ready,Fulfilled", []Status{StatusReady, StatusFulfilled}},
		{"whitespace", " requested , preparing ", []Status{StatusRequested, StatusPreparing}},
		{"duplicates collapsed", "READY,ready", []Status{StatusReady}},
		{"unrecognized dropped", "READY,bogus", []Status{StatusReady}},
		{"all unrecognized", "bogus,nope", []Status{}},
		{"empty", "", []Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseStatusFilter(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseStatusFilter(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStatusDisplay(t *testing.T) {
	if got := StatusRequested.Display(); got != "Requested" {
		t.Errorf("Display() = %q, want Requested", got)
	}
	if got := StatusCancelled.Display(); got != "Cancelled" {
		t.Errorf("Display() = %q, want Cancelled", got)
	}
}
