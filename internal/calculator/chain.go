package calculator

import "fmt"

// Step applies Op with Value to a running total.
type Step struct {
	Op    Op
	Value float64
}

// StepResult is the running total after one step.
type StepResult struct {
	Step
	Result float64
}

// StepError reports the step at which a chain stopped.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Chain applies steps in order starting from initial. It stops at the first
// failing step and returns the results computed so far with a *StepError.
func (c Calculator) Chain(initial float64, steps []Step) ([]StepResult, error) {
	running := initial
	results := make([]StepResult, 0, len(steps))

	for i, step := range steps {
		next, err := c.Apply(step.Op, running, step.Value)
		if err != nil {
			return results, &StepError{Index: i, Op: step.Op, Err: err}
		}
		running = next
		results = append(results, StepResult{Step: step, Result: running})
	}

	return results, nil
}
