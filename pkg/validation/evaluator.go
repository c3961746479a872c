package validation

// Evaluate runs every field check against input and returns the single
// highest-priority failure: the lowest ErrorKind wins, ties go to the field
// that comes first. Custom checks only run when no field failed, and the
// first one to fail is reported. Nil means the input is valid.
func Evaluate(fieldChecks []FieldCheck, input Input, custom ...CustomCheck) *Failure {
	var worst *FieldCheck
	var worstKind ErrorKind

	for i := range fieldChecks {
		kind, ok := fieldChecks[i].Run(input)
		if ok {
			continue
		}
		if worst == nil || kind < worstKind {
			worst, worstKind = &fieldChecks[i], kind
		}
	}

	if worst != nil {
		return &Failure{
			Field:   worst.Path,
			Kind:    worstKind,
			Context: worst.Context,
			Message: Render(worstKind, worst.Path, worst.Context),
		}
	}

	for _, c := range custom {
		if err := c.Check(input); err != nil {
			return &Failure{Kind: Custom, Message: err.Error()}
		}
	}
	return nil
}
