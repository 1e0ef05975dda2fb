package database

import (
	"database/sql"
	"fmt"
	"strings"

	"rewear/internal/models"
)

const swapColumns = `s.id, s.item_id, s.from_user_id, s.to_user_id, s.type, s.status,
	s.created_at, s.updated_at`

// CreateSwapRequest opens a pending swap or redemption against an
// available item. The duplicate-pending guard is the partial unique index
// on swaps, not the pre-check, so concurrent requests cannot both land.
func CreateSwapRequest(db *sql.DB, itemID, fromUserID int, swapType models.SwapType) (*models.Swap, error) {
	if !swapType.Valid() {
		return nil, fmt.Errorf("swap type %q: %w", swapType, ErrValidation)
	}

	item, err := GetItem(db, itemID)
	if err != nil {
		return nil, err
	}

	if item.Status != models.ItemAvailable {
		return nil, fmt.Errorf("item %d is not available: %w", itemID, ErrConflict)
	}
	if item.OwnerID == fromUserID {
		return nil, fmt.Errorf("cannot request own item: %w", ErrConflict)
	}

	if swapType == models.TypeRedeem {
		requester, err := GetUserByID(db, fromUserID)
		if err != nil {
			return nil, err
		}
		if requester.PointsBalance < 1 {
			return nil, fmt.Errorf("insufficient points for redemption: %w", ErrConflict)
		}
	}

	query := `
		INSERT INTO swaps (item_id, from_user_id, to_user_id, type, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := db.Exec(query, itemID, fromUserID, item.OwnerID, swapType, models.SwapPending)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("pending request already exists for item %d: %w", itemID, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get swap ID: %w", err)
	}

	return GetSwap(db, int(id))
}

func GetSwap(db *sql.DB, swapID int) (*models.Swap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps s WHERE s.id = ?`

	swap := &models.Swap{}
	err := db.QueryRow(query, swapID).Scan(
		&swap.ID,
		&swap.ItemID,
		&swap.FromUserID,
		&swap.ToUserID,
		&swap.Type,
		&swap.Status,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("swap %d: %w", swapID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query swap: %w", err)
	}

	item, err := GetItem(db, swap.ItemID)
	if err == nil {
		swap.Item = item
	}
	if fromUser, err := GetUserByID(db, swap.FromUserID); err == nil {
		swap.FromUser = fromUser.Summary()
	}
	if toUser, err := GetUserByID(db, swap.ToUserID); err == nil {
		swap.ToUser = toUser.Summary()
	}

	return swap, nil
}

// RespondToSwap applies the accept/reject decision. Acceptance mutates
// three rows (swap, item, and for redemptions both point balances) inside
// one transaction; a failure at any step rolls everything back.
//
// The swap transition itself is a conditional update on status = pending,
// so a second concurrent respond sees zero affected rows and gets
// ErrConflict instead of a double transition.
func RespondToSwap(db *sql.DB, swapID, responderID int, decision models.SwapStatus) (*models.Swap, error) {
	if decision != models.SwapAccepted && decision != models.SwapRejected {
		return nil, fmt.Errorf("decision %q: %w", decision, ErrValidation)
	}

	swap, err := GetSwap(db, swapID)
	if err != nil {
		return nil, err
	}
	if swap.ToUserID != responderID {
		return nil, fmt.Errorf("swap %d not addressed to user %d: %w", swapID, responderID, ErrForbidden)
	}
	if swap.Status != models.SwapPending {
		return nil, fmt.Errorf("swap %d already processed: %w", swapID, ErrConflict)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE swaps SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		decision, swapID, models.SwapPending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update swap status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("swap %d already processed: %w", swapID, ErrConflict)
	}

	if decision == models.SwapAccepted {
		result, err := tx.Exec(
			`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
			models.ItemSwapped, swap.ItemID, models.ItemAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update item status: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("item %d no longer available: %w", swap.ItemID, ErrConflict)
		}

		if swap.Type == models.TypeRedeem {
			if err := transferPoint(tx, swap.FromUserID, swap.ToUserID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit swap response: %w", err)
	}

	return GetSwap(db, swapID)
}

// transferPoint moves exactly one point from the redeemer to the item
// owner. The debit is conditional on a sufficient balance, which keeps
// points_balance non-negative without a read-modify-write race.
func transferPoint(tx *sql.Tx, fromUserID, toUserID int) error {
	result, err := tx.Exec(
		`UPDATE users SET points_balance = points_balance - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND points_balance >= 1`,
		fromUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to debit points: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("insufficient points for redemption: %w", ErrConflict)
	}

	result, err = tx.Exec(
		`UPDATE users SET points_balance = points_balance + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		toUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to credit points: %w", err)
	}
	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	// A missing recipient must abort the transaction, or the debited
	// point would vanish.
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", toUserID, ErrNotFound)
	}

	return nil
}

// CancelSwap deletes a pending request. Only the requester may cancel,
// and only before the owner has responded.
func CancelSwap(db *sql.DB, swapID, requesterID int) error {
	swap, err := GetSwap(db, swapID)
	if err != nil {
		return err
	}
	if swap.FromUserID != requesterID {
		return fmt.Errorf("swap %d not created by user %d: %w", swapID, requesterID, ErrForbidden)
	}
	if swap.Status != models.SwapPending {
		return fmt.Errorf("swap %d already processed: %w", swapID, ErrConflict)
	}

	result, err := db.Exec(`DELETE FROM swaps WHERE id = ? AND status = ?`, swapID, models.SwapPending)
	if err != nil {
		return fmt.Errorf("failed to cancel swap: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("swap %d already processed: %w", swapID, ErrConflict)
	}

	return nil
}

// GetUserSwaps returns the swaps a user sent and received, newest first.
func GetUserSwaps(db *sql.DB, userID int) (sent, received []models.Swap, err error) {
	sent, err = querySwaps(db, `WHERE s.from_user_id = ? ORDER BY s.created_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, nil, err
	}

	received, err = querySwaps(db, `WHERE s.to_user_id = ? ORDER BY s.created_at DESC, s.id DESC`, userID)
	if err != nil {
		return nil, nil, err
	}

	return sent, received, nil
}

// querySwaps runs the joined swap query with the given trailing clause
// (filter and ordering).
func querySwaps(db *sql.DB, clause string, args ...any) ([]models.Swap, error) {
	query := `
		SELECT ` + swapColumns + `,
		       ` + itemColumns + `,
		       fu.id, fu.name, fu.city,
		       tu.id, tu.name, tu.city
		FROM swaps s
		JOIN items i ON s.item_id = i.id
		JOIN users u ON i.owner_id = u.id
		JOIN users fu ON s.from_user_id = fu.id
		JOIN users tu ON s.to_user_id = tu.id
		` + clause

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query swaps: %w", err)
	}
	defer rows.Close()

	var swaps []models.Swap
	for rows.Next() {
		swap := models.Swap{}
		item := models.Item{}
		owner := models.UserSummary{}
		fromUser := models.UserSummary{}
		toUser := models.UserSummary{}

		err := rows.Scan(
			&swap.ID, &swap.ItemID, &swap.FromUserID, &swap.ToUserID,
			&swap.Type, &swap.Status, &swap.CreatedAt, &swap.UpdatedAt,
			&item.ID, &item.OwnerID, &item.Title, &item.Description,
			&item.Category, &item.Size, &item.Condition, &item.ImageURL,
			&item.Status, &item.CreatedAt, &item.UpdatedAt,
			&owner.ID, &owner.Name, &owner.City,
			&fromUser.ID, &fromUser.Name, &fromUser.City,
			&toUser.ID, &toUser.Name, &toUser.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swap: %w", err)
		}

		item.Owner = &owner
		swap.Item = &item
		swap.FromUser = &fromUser
		swap.ToUser = &toUser
		swaps = append(swaps, swap)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swaps: %w", err)
	}

	return swaps, nil
}
