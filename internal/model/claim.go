package model

import "time"

// Meal types that can be claimed. "All" is accepted by the demographics
// query as a filter wildcard but is never a storable claim value.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"

	FilterAll = "All"
)

// ValidMealType reports whether s names a claimable meal.
func ValidMealType(s string) bool {
	switch s {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// ClaimDateFormat is the layout of Claim.Date (calendar day, no time part).
const ClaimDateFormat = "2006-01-02"

// Claim records that a participant received a meal on a given day.
// The participant fields are a snapshot taken at claim time: later edits to
// the participant record must not retroactively alter historical claims.
// At most one Claim may exist per (participantId, mealType, date) triple;
// the meal_claims table enforces this with a composite unique constraint.
type Claim struct {
	Participant Participant `json:"participant"`
	MealType    string      `json:"mealType"`
	Date        string      `json:"date"`
	ClaimedAt   time.Time   `json:"claimedAt"`
}

// ClaimMealRequest is the DTO for claiming or resetting a meal.
type ClaimMealRequest struct {
	Participant *Participant `json:"participant" validate:"required"`
	MealType    string       `json:"mealType" validate:"required,notblank,mealtype"`
}

// ClaimFilter narrows demographics queries. Zero values mean "no filter";
// Teams holds at most two team names.
type ClaimFilter struct {
	MealType string
	Teams    []string
	Date     string
	Role     string
}

// MessageResponse is the generic {"message": ...} API body.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the body of the claim status check.
type StatusResponse struct {
	Claimed bool `json:"claimed"`
}

// DemographicsResponse aggregates claims against the participant roster.
type DemographicsResponse struct {
	ClaimsData            []Claim `json:"claimsData"`
	TotalParticipants     int     `json:"totalParticipants"`
	UnclaimedParticipants int     `json:"unclaimedParticipants"`
	UnclaimedStudents     int     `json:"unclaimedStudents"`
	UnclaimedMentors      int     `json:"unclaimedMentors"`
}
