package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type dashboardQuery struct {
	Range  string `binding:"omitempty,named_range"`
	Month  string `binding:"omitempty,year_month"`
	Period string `binding:"omitempty,budget_period"`
}

func TestRegister(t *testing.T) {
	Register()

	tests := []struct {
		name  string
		query dashboardQuery
		valid bool
	}{
		{"empty", dashboardQuery{}, true},
		{"all set", dashboardQuery{Range: "last-30-days", Month: "2024-06", Period: "daily"}, true},
		{"unknown range", dashboardQuery{Range: "week"}, false},
		{"month 13", dashboardQuery{Month: "2024-13"}, false},
		{"month name", dashboardQuery{Month: "June"}, false},
		{"yearly period", dashboardQuery{Period: "yearly"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tc.query)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
