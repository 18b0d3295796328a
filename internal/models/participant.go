package models

// Participant represents one attendee from the connpass registration export.
// The registration ID doubles as the barcode printed on the attendee's badge,
// so it is the primary key everywhere in the system.
type Participant struct {
	RegistrationID    string `bson:"registrationId" json:"registration_id"`
	Username          string `bson:"username" json:"username"`
	DisplayName       string `bson:"displayName" json:"display_name"`
	ConnpassAttending bool   `bson:"connpassAttending" json:"connpass_attending"`
}
