package response

import "fitbook/internal/usecase/commands"

type ExpandClassesResponse struct {
	Created  int `json:"created"`
	Skipped  int `json:"skipped"`
	Failures int `json:"failures"`
}

func FromExpandResult(r *commands.ExpandResult) *ExpandClassesResponse {
	return &ExpandClassesResponse{
		Created:  r.Created,
		Skipped:  r.Skipped,
		Failures: r.Failures,
	}
}

type CalculatePayoutsResponse struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Failures int `json:"failures"`
}

func FromPayoutResult(r *commands.PayoutResult) *CalculatePayoutsResponse {
	return &CalculatePayoutsResponse{
		Created:  r.Created,
		Existing: r.Existing,
		Failures: r.Failures,
	}
}
