package utils

import (
	"strings"
	"testing"
)

func TestBeeperEmitsBells(t *testing.T) {
	var out strings.Builder
	b := &Beeper{Enabled: true, Out: &out}

	b.Alert(3)

	if got := out.String(); got != "\a\a\a" {
		t.Errorf("output = %q, want three bells", got)
	}
}

func TestBeeperDisabled(t *testing.T) {
	var out strings.Builder
	b := &Beeper{Enabled: false, Out: &out}

	b.Alert(5)

	if out.Len() != 0 {
		t.Errorf("disabled beeper wrote %q", out.String())
	}
}

func TestBeeperNonPositiveCount(t *testing.T) {
	var out strings.Builder
	b := &Beeper{Enabled: true, Out: &out}

	b.Alert(0)
	b.Alert(-2)

	if out.Len() != 0 {
		t.Errorf("non-positive count wrote %q", out.String())
	}
}
