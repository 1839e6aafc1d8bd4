package main

// UserRequest is the payload for both creating and fully replacing a user.
// Phone and email are stored as-is; the API does not enforce a format.
type UserRequest struct {
	Name  string `json:"name" validate:"required"`
	Cnic  string `json:"cnic" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// VerificationRequestInput is the payload for creating and replacing a
// verification request. It deliberately has no request_date field: the stamp
// is server-side only, so a client-supplied date can never reach the store.
// Status and verification_method are free text, not enums; the dashboard's
// option lists are a client concern.
type VerificationRequestInput struct {
	UserId             int    `json:"user_id" validate:"required"`
	Status             string `json:"status" validate:"required"`
	VerificationMethod string `json:"verification_method" validate:"required"`
	VerifiedBy         string `json:"verified_by" validate:"required"`
}
