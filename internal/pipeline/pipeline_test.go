package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/nao1215/colorcarbon/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, analysis *model.Analysis) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, analysis *model.Analysis) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, analysis)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()
		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))
		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	names := p.StepNames()
	want := []string{"first", "second", "third"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		step := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(_ context.Context, _ *model.Analysis) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(step("a"), step("b"), step("c"))

		analysis := model.NewAnalysis("https://example.com", model.KindWebsite)
		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(order) != 3 || order[0] != "a" || order[2] != "c" {
			t.Errorf("unexpected execution order %v", order)
		}
		if len(analysis.PerformedSteps) != 3 {
			t.Errorf("expected 3 performed steps, got %v", analysis.PerformedSteps)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := &mockStep{name: "failing", doFunc: func(_ context.Context, _ *model.Analysis) error {
			return errBoom
		}}
		after := &mockStep{name: "after"}

		p := New(WithLogger(quietLogger()))
		p.AddSteps(failing, after)

		analysis := model.NewAnalysis("x", model.KindWebsite)
		err := p.Execute(context.Background(), analysis)
		if !errors.Is(err, errBoom) {
			t.Errorf("expected errBoom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("step after failure should not run")
		}
		if !errors.Is(analysis.Error, errBoom) || analysis.ErrorMessage != "boom" {
			t.Errorf("error not recorded: %v %q", analysis.Error, analysis.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		failing := &mockStep{name: "failing", doFunc: func(_ context.Context, _ *model.Analysis) error {
			return errors.New("boom")
		}}
		after := &mockStep{name: "after"}

		p := New(WithLogger(quietLogger()), WithContinueOnError(true))
		p.AddSteps(failing, after)

		analysis := model.NewAnalysis("x", model.KindWebsite)
		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if after.callCount != 1 {
			t.Error("step after failure should run")
		}
		if analysis.Error == nil {
			t.Error("expected error to be recorded")
		}
	})

	t.Run("marks cancelled analysis as timed out", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(quietLogger()))
		p.AddStep(step)

		analysis := model.NewAnalysis("x", model.KindImage)
		err := p.Execute(ctx, analysis)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if !analysis.TimedOut {
			t.Error("expected TimedOut")
		}
		if step.callCount != 0 {
			t.Error("step should not run after cancellation")
		}
	})
}
