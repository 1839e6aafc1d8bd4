package main

import "time"

// VerificationRequest tracks one identity check against a user. RequestDate is
// stamped by the server when the record is created and never changes afterwards.
type VerificationRequest struct {
	Id                 int       `json:"id"`
	UserId             int       `json:"user_id"`
	RequestDate        time.Time `json:"request_date"`
	Status             string    `json:"status"`
	VerificationMethod string    `json:"verification_method"`
	VerifiedBy         string    `json:"verified_by"`
}
