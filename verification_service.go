package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pakid/shared"
)

type VerificationService struct {
	Validator *validator.Validate
	DB        *sql.DB
	Ctx       context.Context
}

func NewVerificationService(validate *validator.Validate, db *sql.DB) *VerificationService {
	return &VerificationService{Validator: validate, DB: db, Ctx: context.Background()}
}

func (s *VerificationService) RegisterRoutes(router fiber.Router) {
	verifications := router.Group("/verifications")
	verifications.Post("/", s.handleCreateVerification)
	verifications.Get("/", s.handleGetVerifications)
	verifications.Get("/:id", s.handleGetVerificationById)
	verifications.Put("/:id", s.handleUpdateVerification)
	verifications.Delete("/:id", s.handleDeleteVerification)
}

func (s *VerificationService) handleCreateVerification(c *fiber.Ctx) (err error) {
	input := &VerificationRequestInput{}
	if err = c.BodyParser(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err = s.Validator.Struct(input)
	if err != nil && errors.As(err, &validator.ValidationErrors{}) {
		return shared.NewFailedValidationError(*input, err.(validator.ValidationErrors))
	}

	// The request date is the server's clock, never the client's. Truncated to
	// microseconds to round-trip through DATETIME(6) unchanged.
	requestDate := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	// No existence check on user_id: requests referencing unknown users are
	// accepted, matching the open foreign key in the schema.
	result, err := tx.ExecContext(s.Ctx, "INSERT INTO verification_requests (user_id, status, verification_method, verified_by, request_date) VALUES (?, ?, ?, ?, ?)",
		input.UserId, input.Status, input.VerificationMethod, input.VerifiedBy, requestDate)
	if err != nil {
		slog.Error("Error occurred while inserting verification request", "err", err)
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	return c.JSON(VerificationRequest{
		Id:                 int(id),
		UserId:             input.UserId,
		RequestDate:        requestDate,
		Status:             input.Status,
		VerificationMethod: input.VerificationMethod,
		VerifiedBy:         input.VerifiedBy,
	})
}

func (s *VerificationService) handleGetVerifications(c *fiber.Ctx) error {
	rows, err := s.DB.QueryContext(s.Ctx, "SELECT id, user_id, request_date, status, verification_method, verified_by FROM verification_requests ORDER BY id")
	if err != nil {
		slog.Error("Error occurred while querying verification requests", "err", err)
		return err
	}
	defer rows.Close()

	verifications := []VerificationRequest{}
	for rows.Next() {
		var verification VerificationRequest
		err := rows.Scan(
			&verification.Id,
			&verification.UserId,
			&verification.RequestDate,
			&verification.Status,
			&verification.VerificationMethod,
			&verification.VerifiedBy,
		)
		if err != nil {
			slog.Error("Error occurred while scanning verification request row", "err", err)
			return err
		}
		verifications = append(verifications, verification)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return c.JSON(verifications)
}

func (s *VerificationService) handleGetVerificationById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Verification request ID must be an integer")
	}

	row := s.DB.QueryRowContext(s.Ctx, "SELECT id, user_id, request_date, status, verification_method, verified_by FROM verification_requests WHERE id = ?", id)

	var verification VerificationRequest
	err = row.Scan(
		&verification.Id,
		&verification.UserId,
		&verification.RequestDate,
		&verification.Status,
		&verification.VerificationMethod,
		&verification.VerifiedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "Verification request not found")
	}
	if err != nil {
		slog.Error("Error occurred while scanning verification request", "err", err)
		return err
	}

	return c.JSON(verification)
}

func (s *VerificationService) handleUpdateVerification(c *fiber.Ctx) (err error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Verification request ID must be an integer")
	}

	input := &VerificationRequestInput{}
	if err = c.BodyParser(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err = s.Validator.Struct(input)
	if err != nil && errors.As(err, &validator.ValidationErrors{}) {
		return shared.NewFailedValidationError(*input, err.(validator.ValidationErrors))
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	// request_date is not part of the update; the original stamp survives a
	// full replace. Zero rows affected still answers 200, legacy behavior.
	_, err = tx.ExecContext(s.Ctx, "UPDATE verification_requests SET user_id = ?, status = ?, verification_method = ?, verified_by = ? WHERE id = ?",
		input.UserId, input.Status, input.VerificationMethod, input.VerifiedBy, id)
	if err != nil {
		slog.Error("Error occurred while updating verification request", "err", err)
		return err
	}

	// Echo the submitted fields with the preserved stamp. When the row never
	// existed the stamp stays the zero time, keeping the no-op visible.
	var requestDate time.Time
	row := tx.QueryRowContext(s.Ctx, "SELECT request_date FROM verification_requests WHERE id = ?", id)
	if scanErr := row.Scan(&requestDate); scanErr != nil && !errors.Is(scanErr, sql.ErrNoRows) {
		err = scanErr
		return err
	}

	return c.JSON(VerificationRequest{
		Id:                 id,
		UserId:             input.UserId,
		RequestDate:        requestDate,
		Status:             input.Status,
		VerificationMethod: input.VerificationMethod,
		VerifiedBy:         input.VerifiedBy,
	})
}

func (s *VerificationService) handleDeleteVerification(c *fiber.Ctx) (err error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Verification request ID must be an integer")
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	_, err = tx.ExecContext(s.Ctx, "DELETE FROM verification_requests WHERE id = ?", id)
	if err != nil {
		slog.Error("Error occurred while deleting verification request", "err", err)
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification request deleted successfully"})
}
