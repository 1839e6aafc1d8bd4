package main

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVerification(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_requests (user_id, status, verification_method, verified_by, request_date) VALUES (?, ?, ?, ?, ?)").
		WithArgs(1, "Pending", "SMS OTP", "agent007", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	before := time.Now().UTC().Add(-time.Second)
	resp := doRequest(t, app, fiber.MethodPost, "/verifications/", fiber.Map{
		"user_id":             1,
		"status":              "Pending",
		"verification_method": "SMS OTP",
		"verified_by":         "agent007",
	})
	after := time.Now().UTC().Add(time.Second)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verification := decodeBody[VerificationRequest](t, resp)
	assert.Equal(t, 1, verification.Id)
	assert.Equal(t, 1, verification.UserId)
	assert.Equal(t, "Pending", verification.Status)
	assert.Equal(t, "SMS OTP", verification.VerificationMethod)
	assert.Equal(t, "agent007", verification.VerifiedBy)
	assert.WithinRange(t, verification.RequestDate, before, after)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A request_date supplied by the client has no field to land in and is
// silently dropped; the stamp is always the server's clock.
func TestCreateVerificationIgnoresClientDate(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_requests (user_id, status, verification_method, verified_by, request_date) VALUES (?, ?, ?, ?, ?)").
		WithArgs(1, "Pending", "Manual", "agent007", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	before := time.Now().UTC().Add(-time.Second)
	resp := doRequest(t, app, fiber.MethodPost, "/verifications/", fiber.Map{
		"user_id":             1,
		"status":              "Pending",
		"verification_method": "Manual",
		"verified_by":         "agent007",
		"request_date":        "2001-01-01T00:00:00Z",
	})
	after := time.Now().UTC().Add(time.Second)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verification := decodeBody[VerificationRequest](t, resp)
	assert.WithinRange(t, verification.RequestDate, before, after)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVerificationMissingFields(t *testing.T) {
	app, mock := newTestServer(t)

	resp := doRequest(t, app, fiber.MethodPost, "/verifications/", fiber.Map{
		"user_id": 1,
	})

	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody[validationDetail](t, resp)
	assert.Contains(t, body.Detail, "status")
	assert.Contains(t, body.Detail, "verification_method")
	assert.Contains(t, body.Detail, "verified_by")
	require.NoError(t, mock.ExpectationsWereMet())
}

// The user_id is never checked for existence; requests referencing unknown
// users are accepted.
func TestCreateVerificationOrphanUserAccepted(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_requests (user_id, status, verification_method, verified_by, request_date) VALUES (?, ?, ?, ?, ?)").
		WithArgs(999999, "Pending", "Biometric", "kiosk-12", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	resp := doRequest(t, app, fiber.MethodPost, "/verifications/", fiber.Map{
		"user_id":             999999,
		"status":              "Pending",
		"verification_method": "Biometric",
		"verified_by":         "kiosk-12",
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVerifications(t *testing.T) {
	app, mock := newTestServer(t)

	stamp := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "request_date", "status", "verification_method", "verified_by"}).
		AddRow(1, 1, stamp, "Pending", "SMS OTP", "agent007").
		AddRow(2, 1, stamp.Add(time.Hour), "Verified", "Biometric", "kiosk-12")
	mock.ExpectQuery("SELECT id, user_id, request_date, status, verification_method, verified_by FROM verification_requests ORDER BY id").
		WillReturnRows(rows)

	resp := doRequest(t, app, fiber.MethodGet, "/verifications/", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verifications := decodeBody[[]VerificationRequest](t, resp)
	require.Len(t, verifications, 2)
	assert.Equal(t, "Pending", verifications[0].Status)
	assert.True(t, stamp.Equal(verifications[0].RequestDate))
	assert.Equal(t, "Biometric", verifications[1].VerificationMethod)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVerificationById(t *testing.T) {
	app, mock := newTestServer(t)

	stamp := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "request_date", "status", "verification_method", "verified_by"}).
		AddRow(3, 1, stamp, "Rejected", "Email OTP", "agent007")
	mock.ExpectQuery("SELECT id, user_id, request_date, status, verification_method, verified_by FROM verification_requests WHERE id = ?").
		WithArgs(3).
		WillReturnRows(rows)

	resp := doRequest(t, app, fiber.MethodGet, "/verifications/3", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verification := decodeBody[VerificationRequest](t, resp)
	assert.Equal(t, 3, verification.Id)
	assert.Equal(t, "Rejected", verification.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVerificationNotFound(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectQuery("SELECT id, user_id, request_date, status, verification_method, verified_by FROM verification_requests WHERE id = ?").
		WithArgs(999999).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "request_date", "status", "verification_method", "verified_by"}))

	resp := doRequest(t, app, fiber.MethodGet, "/verifications/999999", nil)

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decodeBody[errorDetail](t, resp)
	assert.Equal(t, "Verification request not found", body.Detail)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A full replace keeps the original request_date; only the mutable fields
// change. Any status string is accepted, not just the dashboard's options.
func TestUpdateVerificationPreservesRequestDate(t *testing.T) {
	app, mock := newTestServer(t)

	stamp := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE verification_requests SET user_id = ?, status = ?, verification_method = ?, verified_by = ? WHERE id = ?").
		WithArgs(1, "escalated-to-supervisor", "SMS OTP", "agent007", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT request_date FROM verification_requests WHERE id = ?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"request_date"}).AddRow(stamp))
	mock.ExpectCommit()

	resp := doRequest(t, app, fiber.MethodPut, "/verifications/1", fiber.Map{
		"user_id":             1,
		"status":              "escalated-to-supervisor",
		"verification_method": "SMS OTP",
		"verified_by":         "agent007",
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verification := decodeBody[VerificationRequest](t, resp)
	assert.Equal(t, "escalated-to-supervisor", verification.Status)
	assert.True(t, stamp.Equal(verification.RequestDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Updating a missing id affects zero rows and still answers 200; the echoed
// request_date stays the zero time since there is no stored stamp to read.
func TestUpdateVerificationMissingRowStillSucceeds(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE verification_requests SET user_id = ?, status = ?, verification_method = ?, verified_by = ? WHERE id = ?").
		WithArgs(1, "Verified", "Manual", "agent007", 424242).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT request_date FROM verification_requests WHERE id = ?").
		WithArgs(424242).
		WillReturnRows(sqlmock.NewRows([]string{"request_date"}))
	mock.ExpectCommit()

	resp := doRequest(t, app, fiber.MethodPut, "/verifications/424242", fiber.Map{
		"user_id":             1,
		"status":              "Verified",
		"verification_method": "Manual",
		"verified_by":         "agent007",
	})

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	verification := decodeBody[VerificationRequest](t, resp)
	assert.Equal(t, 424242, verification.Id)
	assert.True(t, verification.RequestDate.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteVerification(t *testing.T) {
	app, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM verification_requests WHERE id = ?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp := doRequest(t, app, fiber.MethodDelete, "/verifications/1", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody[messageBody](t, resp)
	assert.Equal(t, "Verification request deleted successfully", body.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}
