package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFixture is the standardized key for fixture names.
	FieldFixture = "fixture"
	// FieldPath is the standardized key for fixture file paths.
	FieldPath = "path"
	// FieldRunID correlates every line emitted by one scan.
	FieldRunID = "run_id"
	// FieldRecovery records which parsing tier produced a result.
	FieldRecovery = "recovery"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)
