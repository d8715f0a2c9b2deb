package dto

// PropagationRequest selects which cluster settings are pushed
type PropagationRequest struct {
	ApplyStorage       bool `json:"applyStorage"`
	ApplySchedule      bool `json:"applySchedule"`
	ApplyEnableBackups bool `json:"applyEnableBackups"`
	RespectExclusions  bool `json:"respectExclusions"`
}

type PropagationChange struct {
	DatabaseID     string `json:"databaseId"`
	Name           string `json:"name"`
	ChangeStorage  bool   `json:"changeStorage"`
	ChangeSchedule bool   `json:"changeSchedule"`
	ChangeEnabled  bool   `json:"changeEnabled"`
}

type PropagationFailure struct {
	DatabaseID string `json:"databaseId"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

type PropagationSummary struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
}

// PropagationApplyResponse reports applied changes and per database failures
type PropagationApplyResponse struct {
	Items    []PropagationChange  `json:"items"`
	Failures []PropagationFailure `json:"failures"`
	Summary  PropagationSummary   `json:"summary"`
}
