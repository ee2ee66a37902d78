package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nao1215/veiltext/internal/model"
)

// recordingStep is a scripted step that records its execution.
type recordingStep struct {
	name     string
	err      error
	executed *[]string
}

func (s *recordingStep) Do(_ context.Context, _ *model.TransformReport) error {
	*s.executed = append(*s.executed, s.name)
	return s.err
}

func (s *recordingStep) Name() string { return s.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("steps run in order", func(t *testing.T) {
		t.Parallel()

		var executed []string
		p := New(WithLogger(discardLogger()))
		p.AddSteps(
			&recordingStep{name: "first", executed: &executed},
			&recordingStep{name: "second", executed: &executed},
			&recordingStep{name: "third", executed: &executed},
		)

		report := model.NewTransformReport("doc.txt", "some text")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}

		expected := []string{"first", "second", "third"}
		if len(executed) != len(expected) {
			t.Fatalf("executed %d steps, expected %d", len(executed), len(expected))
		}
		for i, name := range expected {
			if executed[i] != name {
				t.Errorf("step[%d] = %q, expected %q", i, executed[i], name)
			}
		}
		if len(report.PerformedSteps) != 3 {
			t.Errorf("PerformedSteps = %v, expected 3 entries", report.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		var executed []string
		stepErr := errors.New("stage failed")
		p := New(WithLogger(discardLogger()))
		p.AddSteps(
			&recordingStep{name: "first", err: stepErr, executed: &executed},
			&recordingStep{name: "second", executed: &executed},
		)

		report := model.NewTransformReport("doc.txt", "some text")
		if err := p.Execute(context.Background(), report); !errors.Is(err, stepErr) {
			t.Fatalf("Execute() error = %v, expected %v", err, stepErr)
		}
		if len(executed) != 1 {
			t.Errorf("executed = %v, expected only the failing step", executed)
		}
		if report.ErrorMessage != "stage failed" {
			t.Errorf("ErrorMessage = %q, expected the step error recorded", report.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		var executed []string
		p := New(WithLogger(discardLogger()), WithContinueOnError(true))
		p.AddSteps(
			&recordingStep{name: "first", err: errors.New("stage failed"), executed: &executed},
			&recordingStep{name: "second", executed: &executed},
		)

		report := model.NewTransformReport("doc.txt", "some text")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute() error = %v, expected nil with continueOnError", err)
		}
		if len(executed) != 2 {
			t.Errorf("executed = %v, expected both steps", executed)
		}
	})

	t.Run("respects cancellation between steps", func(t *testing.T) {
		t.Parallel()

		var executed []string
		p := New(WithLogger(discardLogger()))
		p.AddStep(&recordingStep{name: "never", executed: &executed})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report := model.NewTransformReport("doc.txt", "some text")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("Execute() error = %v, expected context.Canceled", err)
		}
		if !report.TimedOut {
			t.Error("TimedOut = false, expected true after cancellation")
		}
		if len(executed) != 0 {
			t.Errorf("executed = %v, expected no steps", executed)
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	var executed []string
	p := New(WithLogger(discardLogger()))
	p.AddSteps(
		&recordingStep{name: "alpha", executed: &executed},
		&recordingStep{name: "beta", executed: &executed},
	)

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, expected 2", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("StepNames() = %v, expected [alpha beta]", names)
	}
}
