package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_CollectsAllErrors(t *testing.T) {
	err := NewConfigValidator("Job").
		Required("input", "").
		Positive("workers", 0).
		NonNegative("parse_workers", -1).
		Probability("alpha", 1.5).
		NonNegativeDuration("send_timeout", -time.Second).
		OneOf("format", "graphml", []string{"edgelist", "adjlist"}).
		Validate()

	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, field := range []string{"Job.input", "Job.workers", "Job.parse_workers", "Job.alpha", "Job.send_timeout", "Job.format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Error %q does not mention %s", err, field)
		}
	}
}

func TestConfigValidator_Valid(t *testing.T) {
	err := NewConfigValidator("Job").
		Required("input", "graph.txt").
		Positive("workers", 4).
		NonNegative("parse_workers", 0).
		Probability("alpha", 0).
		NonNegativeDuration("send_timeout", 0).
		OneOf("format", "adjlist", []string{"edgelist", "adjlist"}).
		Validate()

	if err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("unchecked parsing only applies to adjacency lists")

	err := NewConfigValidator("Job").
		When(true, func(cv *ConfigValidator) {
			cv.Custom("unchecked", func() error { return sentinel })
		}).
		When(false, func(cv *ConfigValidator) {
			cv.Required("never", "")
		}).
		Validate()

	if !errors.Is(err, sentinel) {
		t.Fatalf("Validate() should wrap the custom error, got %v", err)
	}
	if strings.Contains(err.Error(), "never") {
		t.Errorf("Rules behind a false condition ran: %v", err)
	}
}

func TestProbabilityRejectsNaN(t *testing.T) {
	if NewConfigValidator("Job").Probability("alpha", math.NaN()).Validate() == nil {
		t.Error("NaN alpha should be rejected")
	}
}

func TestDefaultOrInt(t *testing.T) {
	tests := []struct {
		value, def, want int
	}{
		{0, 10, 10},
		{-3, 10, 10},
		{7, 10, 7},
	}
	for _, tt := range tests {
		if got := DefaultOrInt(tt.value, tt.def); got != tt.want {
			t.Errorf("DefaultOrInt(%d, %d) = %d, want %d", tt.value, tt.def, got, tt.want)
		}
	}
}
