package database

import (
	"database/sql"
	"fmt"
	"time"

	"rewear/internal/models"
)

type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	TotalItems     int `json:"total_items"`
	PendingItems   int `json:"pending_items"`
	AvailableItems int `json:"available_items"`
	SwappedItems   int `json:"swapped_items"`
	TotalSwaps     int `json:"total_swaps"`
	PendingSwaps   int `json:"pending_swaps"`
}

type UserWithStats struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio"`
	PointsBalance int       `json:"points_balance"`
	IsAdmin       bool      `json:"is_admin"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
	ItemCount     int       `json:"item_count"`
	SwapCount     int       `json:"swap_count"`
}

// ReviewOwner is the lister detail shown to moderators. Unlike the
// public owner summary it carries contact fields.
type ReviewOwner struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Bio     string  `json:"bio"`
	City    *string `json:"city,omitempty"`
	Country *string `json:"country,omitempty"`
}

type ItemForReview struct {
	models.Item
	Owner *ReviewOwner `json:"owner"`
}

// ListItemsForReview returns listings for the moderation view, newest
// first. Empty or "all" status means every status.
func ListItemsForReview(db *sql.DB, status, category string) ([]ItemForReview, error) {
	query := `
		SELECT ` + itemColumns + `, u.email, u.bio, u.country
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE 1=1
	`
	var args []any

	if status != "" && status != "all" {
		query += ` AND i.status = ?`
		args = append(args, status)
	}
	if category != "" {
		query += ` AND i.category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY i.created_at DESC, i.id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for review: %w", err)
	}
	defer rows.Close()

	var entries []ItemForReview
	for rows.Next() {
		entry := ItemForReview{}
		owner := ReviewOwner{}
		err := rows.Scan(
			&entry.ID, &entry.OwnerID, &entry.Title, &entry.Description,
			&entry.Category, &entry.Size, &entry.Condition, &entry.ImageURL,
			&entry.Status, &entry.CreatedAt, &entry.UpdatedAt,
			&owner.ID, &owner.Name, &owner.City,
			&owner.Email, &owner.Bio, &owner.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item for review: %w", err)
		}
		entry.Owner = &owner
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items for review: %w", err)
	}

	return entries, nil
}

// ApproveItem applies the moderation decision to a pending listing. An
// approval also grants the owner their listing point, in the same
// transaction as the status change.
func ApproveItem(db *sql.DB, itemID int, decision models.ItemStatus) (*models.Item, error) {
	if !models.ItemPending.CanTransition(decision) {
		return nil, fmt.Errorf("decision %q: %w", decision, ErrValidation)
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != models.ItemPending {
		return nil, fmt.Errorf("item %d already processed: %w", itemID, ErrConflict)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		decision, itemID, models.ItemPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("item %d already processed: %w", itemID, ErrConflict)
	}

	if decision == models.ItemAvailable {
		_, err := tx.Exec(
			`UPDATE users SET points_balance = points_balance + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			item.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to grant listing point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	return GetItem(db, itemID)
}

// AdminDeleteItem removes a listing regardless of status or owner.
func AdminDeleteItem(db *sql.DB, itemID int) (imageURL *string, err error) {
	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`DELETE FROM items WHERE id = ?`, itemID); err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	return item.ImageURL, nil
}

// SetUserAdmin grants or revokes the admin flag. Admins cannot revoke
// their own flag, so the system can never be left without one by accident.
func SetUserAdmin(db *sql.DB, userID, actingAdminID int, isAdmin bool) (*models.User, error) {
	user, err := GetUserByID(db, userID)
	if err != nil {
		return nil, err
	}

	if user.ID == actingAdminID && !isAdmin {
		return nil, fmt.Errorf("cannot revoke own admin status: %w", ErrForbidden)
	}

	query := `UPDATE users SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := db.Exec(query, isAdmin, userID); err != nil {
		return nil, fmt.Errorf("failed to update admin status: %w", err)
	}

	return GetUserByID(db, userID)
}

func GetAllUsersWithStats(db *sql.DB) ([]UserWithStats, error) {
	query := `
		SELECT u.id, u.name, u.email, u.bio, u.points_balance, u.is_admin, u.is_verified, u.created_at,
		       (SELECT COUNT(*) FROM items i WHERE i.owner_id = u.id) AS item_count,
		       (SELECT COUNT(*) FROM swaps s WHERE s.from_user_id = u.id OR s.to_user_id = u.id) AS swap_count
		FROM users u
		ORDER BY u.created_at DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with stats: %w", err)
	}
	defer rows.Close()

	var users []UserWithStats
	for rows.Next() {
		var user UserWithStats
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Bio, &user.PointsBalance,
			&user.IsAdmin, &user.IsVerified, &user.CreatedAt,
			&user.ItemCount, &user.SwapCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user with stats: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users with stats: %w", err)
	}

	return users, nil
}

func GetAdminStats(db *sql.DB) (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, nil, &stats.TotalUsers},
		{`SELECT COUNT(*) FROM items`, nil, &stats.TotalItems},
		{`SELECT COUNT(*) FROM items WHERE status = ?`, []any{models.ItemPending}, &stats.PendingItems},
		{`SELECT COUNT(*) FROM items WHERE status = ?`, []any{models.ItemAvailable}, &stats.AvailableItems},
		{`SELECT COUNT(*) FROM items WHERE status = ?`, []any{models.ItemSwapped}, &stats.SwappedItems},
		{`SELECT COUNT(*) FROM swaps`, nil, &stats.TotalSwaps},
		{`SELECT COUNT(*) FROM swaps WHERE status = ?`, []any{models.SwapPending}, &stats.PendingSwaps},
	}

	for _, c := range counts {
		if err := db.QueryRow(c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	return stats, nil
}

// GetRecentActivity returns the five most recent items and swaps for the
// admin dashboard.
func GetRecentActivity(db *sql.DB) (items []models.Item, swaps []models.Swap, err error) {
	itemQuery := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON i.owner_id = u.id
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT 5
	`

	rows, err := db.Query(itemQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query recent items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating recent items: %w", err)
	}

	swaps, err = querySwaps(db, `ORDER BY s.created_at DESC, s.id DESC LIMIT 5`)
	if err != nil {
		return nil, nil, err
	}

	return items, swaps, nil
}
