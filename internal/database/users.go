package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"rewear/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, name, email, password_hash, bio, profile_image_url,
	points_balance, is_admin, is_verified, google_id,
	latitude, longitude, address, city, state, country, postal_code,
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.ProfileImage,
		&user.PointsBalance,
		&user.IsAdmin,
		&user.IsVerified,
		&user.GoogleID,
		&user.Latitude,
		&user.Longitude,
		&user.Address,
		&user.City,
		&user.State,
		&user.Country,
		&user.PostalCode,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(db *sql.DB, user models.User, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (name, email, password_hash, bio, latitude, longitude,
		                   address, city, state, country, postal_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, user.Name, user.Email, string(hashedPassword), user.Bio,
		user.Latitude, user.Longitude, user.Address, user.City, user.State, user.Country, user.PostalCode)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	return GetUserByID(db, int(id))
}

// CreateOAuthUser creates an account for a first-time Google login. The
// local password is random and unusable; the account counts as verified
// because the identity provider vouched for the email.
func CreateOAuthUser(db *sql.DB, name, email, googleID string, profileImage *string) (*models.User, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (name, email, password_hash, google_id, profile_image_url, is_verified)
		VALUES (?, ?, ?, ?, ?, TRUE)
	`

	result, err := db.Exec(query, name, email, string(hashedPassword), googleID, profileImage)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	return GetUserByID(db, int(id))
}

func AuthenticateUser(db *sql.DB, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(db, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("password mismatch for %s: %w", email, ErrInvalidCredentials)
	}

	return user, nil
}

func GetUserByID(db *sql.DB, userID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(db.QueryRow(query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	user, err := scanUser(db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func GetUserByGoogleID(db *sql.DB, googleID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = ?`
	user, err := scanUser(db.QueryRow(query, googleID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("google account: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// LinkGoogleID backfills the external id on an account matched by email.
func LinkGoogleID(db *sql.DB, userID int, googleID string) error {
	query := `UPDATE users SET google_id = ?, is_verified = TRUE, updated_at = CURRENT_TIMESTAMP
	          WHERE id = ? AND google_id IS NULL`
	if _, err := db.Exec(query, googleID, userID); err != nil {
		return fmt.Errorf("failed to link google id: %w", err)
	}
	return nil
}

type LocationUpdate struct {
	Latitude   float64
	Longitude  float64
	City       string
	Country    string
	Address    *string
	State      *string
	PostalCode *string
}

func UpdateUserLocation(db *sql.DB, userID int, loc LocationUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET latitude = ?, longitude = ?, city = ?, country = ?,
		    address = COALESCE(?, address),
		    state = COALESCE(?, state),
		    postal_code = COALESCE(?, postal_code),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := db.Exec(query, loc.Latitude, loc.Longitude, loc.City, loc.Country,
		loc.Address, loc.State, loc.PostalCode, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	return GetUserByID(db, userID)
}

// GetUsersWithLocation returns every user except excludeID that has
// coordinates set. The distance filtering happens in the caller.
func GetUsersWithLocation(db *sql.DB, excludeID int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE id != ? AND latitude IS NOT NULL AND longitude IS NOT NULL`

	rows, err := db.Query(query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with location: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
