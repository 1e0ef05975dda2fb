package database

import (
	"database/sql"
	"fmt"
	"strings"

	"rewear/internal/models"
)

func GetWishlist(db *sql.DB, userID int) ([]models.WishlistEntry, error) {
	query := `
		SELECT w.id, w.user_id, w.item_id, w.notes, w.priority, w.created_at,
		       ` + itemColumns + `
		FROM wishlist w
		JOIN items i ON w.item_id = i.id
		JOIN users u ON i.owner_id = u.id
		WHERE w.user_id = ?
		ORDER BY w.created_at DESC, w.id DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WishlistEntry
	for rows.Next() {
		entry := models.WishlistEntry{}
		item := models.Item{}
		owner := models.UserSummary{}

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ItemID, &entry.Notes, &entry.Priority, &entry.CreatedAt,
			&item.ID, &item.OwnerID, &item.Title, &item.Description,
			&item.Category, &item.Size, &item.Condition, &item.ImageURL,
			&item.Status, &item.CreatedAt, &item.UpdatedAt,
			&owner.ID, &owner.Name, &owner.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}

		item.Owner = &owner
		entry.Item = &item
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}

	return entries, nil
}

func AddToWishlist(db *sql.DB, userID, itemID int, notes, priority string) (*models.WishlistEntry, error) {
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("priority %q: %w", priority, ErrValidation)
	}

	if _, err := GetItem(db, itemID); err != nil {
		return nil, err
	}

	query := `INSERT INTO wishlist (user_id, item_id, notes, priority) VALUES (?, ?, ?, ?)`

	result, err := db.Exec(query, userID, itemID, notes, priority)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("item %d already in wishlist: %w", itemID, ErrConflict)
		}
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist ID: %w", err)
	}

	return GetWishlistEntry(db, int(id))
}

func GetWishlistEntry(db *sql.DB, entryID int) (*models.WishlistEntry, error) {
	entry := &models.WishlistEntry{}
	query := `SELECT id, user_id, item_id, notes, priority, created_at FROM wishlist WHERE id = ?`

	err := db.QueryRow(query, entryID).Scan(
		&entry.ID, &entry.UserID, &entry.ItemID, &entry.Notes, &entry.Priority, &entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("wishlist entry %d: %w", entryID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query wishlist entry: %w", err)
	}

	if item, err := GetItem(db, entry.ItemID); err == nil {
		entry.Item = item
	}

	return entry, nil
}

func UpdateWishlistEntry(db *sql.DB, entryID, userID int, notes *string, priority *string) (*models.WishlistEntry, error) {
	entry, err := GetWishlistEntry(db, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("wishlist entry %d not owned by user %d: %w", entryID, userID, ErrForbidden)
	}

	if priority != nil && !models.ValidPriority(*priority) {
		return nil, fmt.Errorf("priority %q: %w", *priority, ErrValidation)
	}

	query := `
		UPDATE wishlist
		SET notes = COALESCE(?, notes), priority = COALESCE(?, priority)
		WHERE id = ? AND user_id = ?
	`
	if _, err := db.Exec(query, notes, priority, entryID, userID); err != nil {
		return nil, fmt.Errorf("failed to update wishlist entry: %w", err)
	}

	return GetWishlistEntry(db, entryID)
}

func RemoveFromWishlist(db *sql.DB, entryID, userID int) error {
	entry, err := GetWishlistEntry(db, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return fmt.Errorf("wishlist entry %d not owned by user %d: %w", entryID, userID, ErrForbidden)
	}

	if _, err := db.Exec(`DELETE FROM wishlist WHERE id = ? AND user_id = ?`, entryID, userID); err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}

	return nil
}

// CheckWishlist reports whether an item is in the user's wishlist.
func CheckWishlist(db *sql.DB, userID, itemID int) (*models.WishlistEntry, error) {
	entry := &models.WishlistEntry{}
	query := `SELECT id, user_id, item_id, notes, priority, created_at
	          FROM wishlist WHERE user_id = ? AND item_id = ?`

	err := db.QueryRow(query, userID, itemID).Scan(
		&entry.ID, &entry.UserID, &entry.ItemID, &entry.Notes, &entry.Priority, &entry.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", err)
	}

	return entry, nil
}
