package model

// Role values for Participant.StudentMentor.
const (
	RoleStudent = "Student"
	RoleMentor  = "Mentor"
)

// Participant is a registered event participant. The record is owned by the
// externally managed participants table; this service only ever reads it.
type Participant struct {
	ParticipantID string `json:"participantId" validate:"required,notblank,max=255"`
	Name          string `json:"name"`
	TeamName      string `json:"teamName"`
	MailID        string `json:"mailId"`
	StudentMentor string `json:"studentMentor"`
}
