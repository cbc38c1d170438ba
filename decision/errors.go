package decision

import "errors"

var (
	// ErrSearcherRequired is returned when a case searcher is not provided.
	ErrSearcherRequired = errors.New("case searcher required")

	// ErrGuidelineRepositoryRequired is returned when a guideline repository is not provided.
	ErrGuidelineRepositoryRequired = errors.New("guideline repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrScenarioRequired is returned when Advise is called without a clinical scenario.
	ErrScenarioRequired = errors.New("clinical scenario required")
)
