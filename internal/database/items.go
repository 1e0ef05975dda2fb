package database

import (
	"database/sql"
	"fmt"

	"rewear/internal/models"
)

const itemColumns = `i.id, i.owner_id, i.title, i.description, i.category, i.size,
	i.condition, i.image_url, i.status, i.created_at, i.updated_at,
	u.id, u.name, u.city`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	item := &models.Item{}
	owner := &models.UserSummary{}
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Size,
		&item.Condition,
		&item.ImageURL,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.City,
	)
	if err != nil {
		return nil, err
	}
	item.Owner = owner
	return item, nil
}

func CreateItem(db *sql.DB, ownerID int, item models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (owner_id, title, description, category, size, condition, image_url, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, ownerID, item.Title, item.Description,
		item.Category, item.Size, item.Condition, item.ImageURL, models.ItemPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item ID: %w", err)
	}

	return GetItem(db, int(id))
}

type ItemFilters struct {
	Category  string
	Size      string
	Condition string
	Search    string
	// Status limits the result to one status. Empty means available only;
	// "all" disables the filter (admin listing).
	Status string
}

func ListItems(db *sql.DB, filters ItemFilters) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE 1=1
	`
	var args []any

	switch filters.Status {
	case "all":
	case "":
		query += ` AND i.status = ?`
		args = append(args, models.ItemAvailable)
	default:
		query += ` AND i.status = ?`
		args = append(args, filters.Status)
	}

	if filters.Category != "" {
		query += ` AND i.category = ?`
		args = append(args, filters.Category)
	}
	if filters.Size != "" {
		query += ` AND i.size = ?`
		args = append(args, filters.Size)
	}
	if filters.Condition != "" {
		query += ` AND i.condition = ?`
		args = append(args, filters.Condition)
	}
	if filters.Search != "" {
		query += ` AND (i.title LIKE ? OR i.description LIKE ?)`
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY i.created_at DESC, i.id DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

func GetItem(db *sql.DB, itemID int) (*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE i.id = ?
	`

	item, err := scanItem(db.QueryRow(query, itemID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return item, nil
}

// SetItemStatus is the owner-facing status change. The only permitted
// transition here is available -> swapped; moderation transitions go
// through ApproveItem.
func SetItemStatus(db *sql.DB, itemID, requesterID int, status models.ItemStatus) (*models.Item, error) {
	if !models.ItemAvailable.CanTransition(status) {
		return nil, fmt.Errorf("status %q: %w", status, ErrValidation)
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != requesterID {
		return nil, fmt.Errorf("item %d not owned by user %d: %w", itemID, requesterID, ErrForbidden)
	}

	// Conditional update keyed on the current status, so this path and a
	// concurrent swap acceptance cannot both win.
	result, err := db.Exec(
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		models.ItemSwapped, itemID, models.ItemAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("item %d is not available: %w", itemID, ErrConflict)
	}

	return GetItem(db, itemID)
}

// DeleteItem removes the row and reports the stored image path so the
// caller can delete the file after the row is gone.
func DeleteItem(db *sql.DB, itemID, requesterID int) (imageURL *string, err error) {
	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != requesterID {
		return nil, fmt.Errorf("item %d not owned by user %d: %w", itemID, requesterID, ErrForbidden)
	}

	result, err := db.Exec(`DELETE FROM items WHERE id = ? AND owner_id = ?`, itemID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	return item.ImageURL, nil
}

func GetItemsByOwner(db *sql.DB, ownerID int) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE i.owner_id = ?
		ORDER BY i.created_at DESC, i.id DESC
	`

	rows, err := db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by owner: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// GetAvailableItemsWithOwnerLocation returns available items whose owner
// has coordinates, for the nearby-items scan.
func GetAvailableItemsWithOwnerLocation(db *sql.DB, excludeOwnerID int) ([]models.Item, []models.User, error) {
	query := `
		SELECT ` + itemColumns + `, u.latitude, u.longitude, u.state, u.country
		FROM items i
		JOIN users u ON i.owner_id = u.id
		WHERE i.status = ? AND i.owner_id != ?
		  AND u.latitude IS NOT NULL AND u.longitude IS NOT NULL
		ORDER BY i.created_at DESC
	`

	rows, err := db.Query(query, models.ItemAvailable, excludeOwnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query items with owner location: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	var owners []models.User
	for rows.Next() {
		item := models.Item{}
		ownerSummary := models.UserSummary{}
		owner := models.User{}
		err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Title, &item.Description,
			&item.Category, &item.Size, &item.Condition, &item.ImageURL,
			&item.Status, &item.CreatedAt, &item.UpdatedAt,
			&ownerSummary.ID, &ownerSummary.Name, &ownerSummary.City,
			&owner.Latitude, &owner.Longitude, &owner.State, &owner.Country,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Owner = &ownerSummary
		owner.ID = ownerSummary.ID
		owner.Name = ownerSummary.Name
		owner.City = ownerSummary.City
		items = append(items, item)
		owners = append(owners, owner)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, owners, nil
}
