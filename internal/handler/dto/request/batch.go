package request

type ExpandClassesRequest struct {
	HorizonDays int `json:"horizon_days" binding:"required,min=1"`
}

type CalculatePayoutsRequest struct {
	// Period is a calendar month, "2006-01".
	Period string `json:"period" binding:"required"`
}
