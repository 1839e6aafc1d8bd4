package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"

	"pakid/shared"
)

type UserService struct {
	Validator *validator.Validate
	DB        *sql.DB
	Ctx       context.Context
}

func NewUserService(validate *validator.Validate, db *sql.DB) *UserService {
	return &UserService{Validator: validate, DB: db, Ctx: context.Background()}
}

func (s *UserService) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/", s.handleCreateUser)
	users.Get("/", s.handleGetUsers)
	users.Get("/:id", s.handleGetUserById)
	users.Put("/:id", s.handleUpdateUser)
	users.Delete("/:id", s.handleDeleteUser)
}

func (s *UserService) handleCreateUser(c *fiber.Ctx) (err error) {
	userRequest := &UserRequest{}
	if err = c.BodyParser(userRequest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err = s.Validator.Struct(userRequest)
	if err != nil && errors.As(err, &validator.ValidationErrors{}) {
		return shared.NewFailedValidationError(*userRequest, err.(validator.ValidationErrors))
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	result, err := tx.ExecContext(s.Ctx, "INSERT INTO users (name, cnic, phone, email) VALUES (?, ?, ?, ?)",
		userRequest.Name, userRequest.Cnic, userRequest.Phone, userRequest.Email)
	if err != nil {
		if dupErr := duplicateEntryError(err); dupErr != nil {
			return dupErr
		}
		slog.Error("Error occurred while inserting user", "err", err)
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	return c.JSON(User{
		Id:    int(id),
		Name:  userRequest.Name,
		Cnic:  userRequest.Cnic,
		Phone: userRequest.Phone,
		Email: userRequest.Email,
	})
}

func (s *UserService) handleGetUsers(c *fiber.Ctx) error {
	rows, err := s.DB.QueryContext(s.Ctx, "SELECT id, name, cnic, phone, email FROM users ORDER BY id")
	if err != nil {
		slog.Error("Error occurred while querying users", "err", err)
		return err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.Id, &user.Name, &user.Cnic, &user.Phone, &user.Email); err != nil {
			slog.Error("Error occurred while scanning user row", "err", err)
			return err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return c.JSON(users)
}

func (s *UserService) handleGetUserById(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "User ID must be an integer")
	}

	row := s.DB.QueryRowContext(s.Ctx, "SELECT id, name, cnic, phone, email FROM users WHERE id = ?", id)

	var user User
	err = row.Scan(&user.Id, &user.Name, &user.Cnic, &user.Phone, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		slog.Error("Error occurred while scanning user", "err", err)
		return err
	}

	return c.JSON(user)
}

func (s *UserService) handleUpdateUser(c *fiber.Ctx) (err error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "User ID must be an integer")
	}

	userRequest := &UserRequest{}
	if err = c.BodyParser(userRequest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	err = s.Validator.Struct(userRequest)
	if err != nil && errors.As(err, &validator.ValidationErrors{}) {
		return shared.NewFailedValidationError(*userRequest, err.(validator.ValidationErrors))
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	// Zero rows affected is not an error: the legacy API answers 200 for
	// updates of ids that do not exist, echoing the submitted fields.
	_, err = tx.ExecContext(s.Ctx, "UPDATE users SET name = ?, cnic = ?, phone = ?, email = ? WHERE id = ?",
		userRequest.Name, userRequest.Cnic, userRequest.Phone, userRequest.Email, id)
	if err != nil {
		if dupErr := duplicateEntryError(err); dupErr != nil {
			return dupErr
		}
		slog.Error("Error occurred while updating user", "err", err)
		return err
	}

	return c.JSON(User{
		Id:    id,
		Name:  userRequest.Name,
		Cnic:  userRequest.Cnic,
		Phone: userRequest.Phone,
		Email: userRequest.Email,
	})
}

func (s *UserService) handleDeleteUser(c *fiber.Ctx) (err error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "User ID must be an integer")
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer shared.CommitOrRollback(tx, &err)

	// Deleting an id that was never created is still a success.
	_, err = tx.ExecContext(s.Ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		slog.Error("Error occurred while deleting user", "err", err)
		return err
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// duplicateEntryError translates a MySQL 1062 into a client-visible conflict.
// Any other error returns nil and stays with the caller.
func duplicateEntryError(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return nil
	}
	slog.Error("MySQL duplicate entry", "code", mysqlErr.Number, "message", mysqlErr.Message)
	if strings.Contains(mysqlErr.Message, "cnic") {
		return fiber.NewError(fiber.StatusConflict, "A user with this CNIC already exists")
	}
	return fiber.NewError(fiber.StatusConflict, "Duplicate entry")
}
