package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"rewear/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}

	// A :memory: database exists per connection, so concurrent tests
	// must share a single one.
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB, name, email string) *models.User {
	t.Helper()
	user, err := CreateUser(db, models.User{Name: name, Email: email}, "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}
	return user
}

// createAvailableItem lists an item for the owner and approves it, the
// only path an item takes to become available.
func createAvailableItem(t *testing.T, db *sql.DB, ownerID int, title string) *models.Item {
	t.Helper()
	item, err := CreateItem(db, ownerID, models.Item{
		Title:       title,
		Description: "A perfectly fine piece of clothing",
		Category:    "tops",
		Size:        "M",
		Condition:   "good",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}

	approved, err := ApproveItem(db, item.ID, models.ItemAvailable)
	if err != nil {
		t.Fatal("Failed to approve item:", err)
	}
	return approved
}

func setPoints(t *testing.T, db *sql.DB, userID, balance int) {
	t.Helper()
	if _, err := db.Exec(`UPDATE users SET points_balance = ? WHERE id = ?`, balance, userID); err != nil {
		t.Fatal("Failed to set points balance:", err)
	}
}

func TestUserCreationAndAuthentication(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Alice", "alice@example.com")

	if user.Name != "Alice" {
		t.Errorf("Expected name 'Alice', got %s", user.Name)
	}
	if user.PointsBalance != 0 {
		t.Errorf("Expected zero starting balance, got %d", user.PointsBalance)
	}
	if user.IsAdmin {
		t.Error("New users must not be admins")
	}

	authUser, err := AuthenticateUser(db, "alice@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to authenticate user:", err)
	}
	if authUser.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, authUser.ID)
	}

	_, err = AuthenticateUser(db, "alice@example.com", "wrongpassword")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	_, err = CreateUser(db, models.User{Name: "Alice Again", Email: "alice@example.com"}, "password456")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for reused email, got %v", err)
	}
}

func TestOAuthUserLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateOAuthUser(db, "Bob", "bob@example.com", "google-123", nil)
	if err != nil {
		t.Fatal("Failed to create OAuth user:", err)
	}
	if !user.IsVerified {
		t.Error("OAuth users should be verified on creation")
	}

	found, err := GetUserByGoogleID(db, "google-123")
	if err != nil {
		t.Fatal("Failed to look up user by google id:", err)
	}
	if found.ID != user.ID {
		t.Errorf("Expected user ID %d, got %d", user.ID, found.ID)
	}

	// Linking backfills the google id onto a password account.
	passUser := createTestUser(t, db, "Carol", "carol@example.com")
	if err := LinkGoogleID(db, passUser.ID, "google-456"); err != nil {
		t.Fatal("Failed to link google id:", err)
	}
	linked, err := GetUserByGoogleID(db, "google-456")
	if err != nil {
		t.Fatal("Failed to find linked user:", err)
	}
	if linked.ID != passUser.ID {
		t.Errorf("Expected user ID %d, got %d", passUser.ID, linked.ID)
	}
}

func TestItemLifecycleAndFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Dana", "dana@example.com")

	item, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Blue denim jacket",
		Description: "Barely worn jacket, great for spring",
		Category:    "outerwear",
		Size:        "L",
		Condition:   "like-new",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}
	if item.Status != models.ItemPending {
		t.Errorf("New items must be pending, got %s", item.Status)
	}

	// Pending items never show up in the public listing.
	items, err := ListItems(db, ItemFilters{})
	if err != nil {
		t.Fatal("Failed to list items:", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty listing before approval, got %d items", len(items))
	}

	if _, err := ApproveItem(db, item.ID, models.ItemAvailable); err != nil {
		t.Fatal("Failed to approve item:", err)
	}

	items, err = ListItems(db, ItemFilters{})
	if err != nil {
		t.Fatal("Failed to list items:", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 available item, got %d", len(items))
	}
	if items[0].Owner == nil || items[0].Owner.Name != "Dana" {
		t.Error("Listing should embed the owner summary")
	}

	items, err = ListItems(db, ItemFilters{Category: "shoes"})
	if err != nil {
		t.Fatal("Failed to list items:", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no shoes, got %d items", len(items))
	}

	items, err = ListItems(db, ItemFilters{Search: "denim"})
	if err != nil {
		t.Fatal("Failed to list items:", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected search to match the jacket, got %d items", len(items))
	}
}

func TestSetItemStatusRules(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Eve", "eve@example.com")
	other := createTestUser(t, db, "Frank", "frank@example.com")
	item := createAvailableItem(t, db, owner.ID, "Wool sweater")

	if _, err := SetItemStatus(db, item.ID, other.ID, models.ItemSwapped); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}

	if _, err := SetItemStatus(db, item.ID, owner.ID, models.ItemAvailable); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for available->available, got %v", err)
	}

	updated, err := SetItemStatus(db, item.ID, owner.ID, models.ItemSwapped)
	if err != nil {
		t.Fatal("Failed to mark item swapped:", err)
	}
	if updated.Status != models.ItemSwapped {
		t.Errorf("Expected swapped, got %s", updated.Status)
	}

	// Swapped is terminal.
	if _, err := SetItemStatus(db, item.ID, owner.ID, models.ItemSwapped); err == nil {
		t.Error("Expected error re-marking a swapped item")
	}
}

func TestModerationGate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Grace", "grace@example.com")

	item, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Leather boots",
		Description: "Sturdy boots for rainy days",
		Category:    "shoes",
		Size:        "M",
		Condition:   "good",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}

	approved, err := ApproveItem(db, item.ID, models.ItemAvailable)
	if err != nil {
		t.Fatal("Failed to approve item:", err)
	}
	if approved.Status != models.ItemAvailable {
		t.Errorf("Expected available, got %s", approved.Status)
	}

	// Approval grants the listing point exactly once.
	owner, err = GetUserByID(db, owner.ID)
	if err != nil {
		t.Fatal("Failed to reload owner:", err)
	}
	if owner.PointsBalance != 1 {
		t.Errorf("Expected balance 1 after approval, got %d", owner.PointsBalance)
	}

	if _, err := ApproveItem(db, item.ID, models.ItemAvailable); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on double approval, got %v", err)
	}
	owner, _ = GetUserByID(db, owner.ID)
	if owner.PointsBalance != 1 {
		t.Errorf("Double approval must not grant again, balance %d", owner.PointsBalance)
	}

	// Rejection grants nothing.
	rejectable, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Questionable hat",
		Description: "A hat that did not pass review",
		Category:    "accessories",
		Size:        "One Size",
		Condition:   "poor",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}
	rejected, err := ApproveItem(db, rejectable.ID, models.ItemRejected)
	if err != nil {
		t.Fatal("Failed to reject item:", err)
	}
	if rejected.Status != models.ItemRejected {
		t.Errorf("Expected rejected, got %s", rejected.Status)
	}
	owner, _ = GetUserByID(db, owner.ID)
	if owner.PointsBalance != 1 {
		t.Errorf("Rejection must not grant a point, balance %d", owner.PointsBalance)
	}
}

func TestListItemsForReview(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Hana", "hana@example.com")

	createAvailableItem(t, db, owner.ID, "Approved coat")

	pending, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Waiting blouse",
		Description: "Still in the moderation queue",
		Category:    "tops",
		Size:        "S",
		Condition:   "good",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}

	rejectable, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Torn jeans",
		Description: "Did not make it past review",
		Category:    "bottoms",
		Size:        "M",
		Condition:   "poor",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}
	if _, err := ApproveItem(db, rejectable.ID, models.ItemRejected); err != nil {
		t.Fatal("Failed to reject item:", err)
	}

	// No filter means every status.
	entries, err := ListItemsForReview(db, "", "")
	if err != nil {
		t.Fatal("Failed to list items for review:", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected all 3 items regardless of status, got %d", len(entries))
	}

	statuses := make(map[models.ItemStatus]bool)
	for _, entry := range entries {
		statuses[entry.Status] = true
		if entry.Owner == nil || entry.Owner.Email != "hana@example.com" {
			t.Error("Moderation entries must carry the lister's contact detail")
		}
	}
	for _, want := range []models.ItemStatus{models.ItemPending, models.ItemAvailable, models.ItemRejected} {
		if !statuses[want] {
			t.Errorf("Expected a %s item in the unfiltered review listing", want)
		}
	}

	entries, err = ListItemsForReview(db, string(models.ItemPending), "")
	if err != nil {
		t.Fatal("Failed to list pending items:", err)
	}
	if len(entries) != 1 || entries[0].ID != pending.ID {
		t.Errorf("Expected only the pending item, got %d entries", len(entries))
	}

	entries, err = ListItemsForReview(db, "", "bottoms")
	if err != nil {
		t.Fatal("Failed to list by category:", err)
	}
	if len(entries) != 1 || entries[0].ID != rejectable.ID {
		t.Errorf("Expected only the bottoms item, got %d entries", len(entries))
	}
}

func TestTransferPointMissingRecipient(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	payer := createTestUser(t, db, "Ines", "ines@example.com")
	setPoints(t, db, payer.ID, 1)

	tx, err := db.Begin()
	if err != nil {
		t.Fatal("Failed to start transaction:", err)
	}
	defer tx.Rollback()

	if err := transferPoint(tx, payer.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound crediting a missing user, got %v", err)
	}
}

func TestSwapRequestRules(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Henry", "henry@example.com")
	requester := createTestUser(t, db, "Iris", "iris@example.com")
	item := createAvailableItem(t, db, owner.ID, "Striped shirt")

	if _, err := CreateSwapRequest(db, item.ID, owner.ID, models.TypeSwap); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict requesting own item, got %v", err)
	}

	swap, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create swap request:", err)
	}
	if swap.Status != models.SwapPending {
		t.Errorf("New requests must be pending, got %s", swap.Status)
	}
	if swap.ToUserID != owner.ID {
		t.Errorf("Request must target the owner, got user %d", swap.ToUserID)
	}

	// One pending request per user per item.
	if _, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate pending request, got %v", err)
	}

	// The item stays available while the request is pending.
	reloaded, err := GetItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.ItemAvailable {
		t.Errorf("Pending request must not change item status, got %s", reloaded.Status)
	}

	// Requests against non-available items are refused.
	pendingItem, err := CreateItem(db, owner.ID, models.Item{
		Title:       "Unreviewed scarf",
		Description: "Still waiting on moderation",
		Category:    "accessories",
		Size:        "One Size",
		Condition:   "new",
	})
	if err != nil {
		t.Fatal("Failed to create item:", err)
	}
	if _, err := CreateSwapRequest(db, pendingItem.ID, requester.ID, models.TypeSwap); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for pending item, got %v", err)
	}
}

func TestSwapAcceptance(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Jack", "jack@example.com")
	first := createTestUser(t, db, "Kim", "kim@example.com")
	second := createTestUser(t, db, "Liam", "liam@example.com")
	item := createAvailableItem(t, db, owner.ID, "Corduroy pants")

	swapA, err := CreateSwapRequest(db, item.ID, first.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create first request:", err)
	}
	swapB, err := CreateSwapRequest(db, item.ID, second.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create second request:", err)
	}

	// Only the owner may respond.
	if _, err := RespondToSwap(db, swapA.ID, first.ID, models.SwapAccepted); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner response, got %v", err)
	}

	accepted, err := RespondToSwap(db, swapA.ID, owner.ID, models.SwapAccepted)
	if err != nil {
		t.Fatal("Failed to accept swap:", err)
	}
	if accepted.Status != models.SwapAccepted {
		t.Errorf("Expected accepted, got %s", accepted.Status)
	}

	reloaded, err := GetItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.ItemSwapped {
		t.Errorf("Accepted swap must mark the item swapped, got %s", reloaded.Status)
	}

	// The swap is respond-once.
	if _, err := RespondToSwap(db, swapA.ID, owner.ID, models.SwapRejected); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on second response, got %v", err)
	}

	// The competing request cannot be accepted now that the item is gone.
	if _, err := RespondToSwap(db, swapB.ID, owner.ID, models.SwapAccepted); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict accepting against a swapped item, got %v", err)
	}

	// But it can still be rejected.
	rejected, err := RespondToSwap(db, swapB.ID, owner.ID, models.SwapRejected)
	if err != nil {
		t.Fatal("Failed to reject competing swap:", err)
	}
	if rejected.Status != models.SwapRejected {
		t.Errorf("Expected rejected, got %s", rejected.Status)
	}
}

func TestSwapRejectionKeepsItemAvailable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Mona", "mona@example.com")
	requester := createTestUser(t, db, "Nate", "nate@example.com")
	item := createAvailableItem(t, db, owner.ID, "Linen shirt")

	swap, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create swap request:", err)
	}

	if _, err := RespondToSwap(db, swap.ID, owner.ID, models.SwapRejected); err != nil {
		t.Fatal("Failed to reject swap:", err)
	}

	reloaded, err := GetItem(db, item.ID)
	if err != nil {
		t.Fatal("Failed to reload item:", err)
	}
	if reloaded.Status != models.ItemAvailable {
		t.Errorf("Rejected swap must leave the item available, got %s", reloaded.Status)
	}

	// The requester may request again after a rejection.
	if _, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap); err != nil {
		t.Errorf("Expected a fresh request after rejection, got %v", err)
	}
}

func TestRedemptionPoints(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Olga", "olga@example.com")
	redeemer := createTestUser(t, db, "Pete", "pete@example.com")
	item := createAvailableItem(t, db, owner.ID, "Silk scarf")
	setPoints(t, db, owner.ID, 0)

	// No points, no redemption request.
	if _, err := CreateSwapRequest(db, item.ID, redeemer.ID, models.TypeRedeem); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict with zero balance, got %v", err)
	}

	setPoints(t, db, redeemer.ID, 1)

	swap, err := CreateSwapRequest(db, item.ID, redeemer.ID, models.TypeRedeem)
	if err != nil {
		t.Fatal("Failed to create redemption request:", err)
	}

	if _, err := RespondToSwap(db, swap.ID, owner.ID, models.SwapAccepted); err != nil {
		t.Fatal("Failed to accept redemption:", err)
	}

	redeemer, _ = GetUserByID(db, redeemer.ID)
	owner, _ = GetUserByID(db, owner.ID)
	if redeemer.PointsBalance != 0 {
		t.Errorf("Expected redeemer balance 0, got %d", redeemer.PointsBalance)
	}
	if owner.PointsBalance != 1 {
		t.Errorf("Expected owner balance 1, got %d", owner.PointsBalance)
	}
}

func TestRedemptionFailsWhenPointsSpent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ownerA := createTestUser(t, db, "Quinn", "quinn@example.com")
	ownerB := createTestUser(t, db, "Rosa", "rosa@example.com")
	redeemer := createTestUser(t, db, "Sam", "sam@example.com")
	itemA := createAvailableItem(t, db, ownerA.ID, "Denim skirt")
	itemB := createAvailableItem(t, db, ownerB.ID, "Canvas bag")
	setPoints(t, db, redeemer.ID, 1)

	swapA, err := CreateSwapRequest(db, itemA.ID, redeemer.ID, models.TypeRedeem)
	if err != nil {
		t.Fatal("Failed to create first redemption:", err)
	}
	swapB, err := CreateSwapRequest(db, itemB.ID, redeemer.ID, models.TypeRedeem)
	if err != nil {
		t.Fatal("Failed to create second redemption:", err)
	}

	if _, err := RespondToSwap(db, swapA.ID, ownerA.ID, models.SwapAccepted); err != nil {
		t.Fatal("Failed to accept first redemption:", err)
	}

	// The point is spent. Accepting the second redemption must fail and
	// leave everything untouched.
	if _, err := RespondToSwap(db, swapB.ID, ownerB.ID, models.SwapAccepted); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict for insufficient points, got %v", err)
	}

	itemB, _ = GetItem(db, itemB.ID)
	if itemB.Status != models.ItemAvailable {
		t.Errorf("Failed acceptance must roll back the item, got %s", itemB.Status)
	}
	swapB, _ = GetSwap(db, swapB.ID)
	if swapB.Status != models.SwapPending {
		t.Errorf("Failed acceptance must roll back the swap, got %s", swapB.Status)
	}
	redeemer, _ = GetUserByID(db, redeemer.ID)
	if redeemer.PointsBalance != 0 {
		t.Errorf("Expected balance 0, got %d", redeemer.PointsBalance)
	}
}

func TestCancelSwap(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Tara", "tara@example.com")
	requester := createTestUser(t, db, "Uri", "uri@example.com")
	item := createAvailableItem(t, db, owner.ID, "Plaid shirt")

	swap, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create swap request:", err)
	}

	// Only the requester may cancel.
	if err := CancelSwap(db, swap.ID, owner.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for owner cancel, got %v", err)
	}

	if err := CancelSwap(db, swap.ID, requester.ID); err != nil {
		t.Fatal("Failed to cancel swap:", err)
	}

	// The row is gone, so a response finds nothing.
	if _, err := RespondToSwap(db, swap.ID, owner.ID, models.SwapAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after cancel, got %v", err)
	}

	// Cancelling a resolved swap fails.
	swap, err = CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to recreate swap request:", err)
	}
	if _, err := RespondToSwap(db, swap.ID, owner.ID, models.SwapAccepted); err != nil {
		t.Fatal("Failed to accept swap:", err)
	}
	if err := CancelSwap(db, swap.ID, requester.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict cancelling an accepted swap, got %v", err)
	}
}

func TestConcurrentRespondExactlyOneWins(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Vera", "vera@example.com")
	requester := createTestUser(t, db, "Will", "will@example.com")
	item := createAvailableItem(t, db, owner.ID, "Puffer jacket")

	swap, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap)
	if err != nil {
		t.Fatal("Failed to create swap request:", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := RespondToSwap(db, swap.ID, owner.ID, models.SwapAccepted)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("Expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}

	reloaded, _ := GetItem(db, item.ID)
	if reloaded.Status != models.ItemSwapped {
		t.Errorf("Expected item swapped, got %s", reloaded.Status)
	}
}

func TestGetUserSwaps(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Xena", "xena@example.com")
	requester := createTestUser(t, db, "Yuri", "yuri@example.com")

	for i := 0; i < 3; i++ {
		item := createAvailableItem(t, db, owner.ID, fmt.Sprintf("Listing %d", i))
		if _, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap); err != nil {
			t.Fatal("Failed to create swap request:", err)
		}
	}

	sent, received, err := GetUserSwaps(db, requester.ID)
	if err != nil {
		t.Fatal("Failed to get user swaps:", err)
	}
	if len(sent) != 3 || len(received) != 0 {
		t.Errorf("Expected 3 sent / 0 received for requester, got %d/%d", len(sent), len(received))
	}

	sent, received, err = GetUserSwaps(db, owner.ID)
	if err != nil {
		t.Fatal("Failed to get user swaps:", err)
	}
	if len(sent) != 0 || len(received) != 3 {
		t.Errorf("Expected 0 sent / 3 received for owner, got %d/%d", len(sent), len(received))
	}

	if received[0].Item == nil || received[0].FromUser == nil {
		t.Error("Swaps must embed the item and counterpart")
	}
}

func TestWishlist(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Zoe", "zoe@example.com")
	user := createTestUser(t, db, "Abel", "abel@example.com")
	item := createAvailableItem(t, db, owner.ID, "Knit cardigan")

	entry, err := AddToWishlist(db, user.ID, item.ID, "for winter", "")
	if err != nil {
		t.Fatal("Failed to add to wishlist:", err)
	}
	if entry.Priority != models.PriorityMedium {
		t.Errorf("Expected default priority medium, got %s", entry.Priority)
	}

	if _, err := AddToWishlist(db, user.ID, item.ID, "", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate wishlist add, got %v", err)
	}

	if _, err := AddToWishlist(db, user.ID, item.ID, "", "urgent"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for bad priority, got %v", err)
	}

	high := "high"
	updated, err := UpdateWishlistEntry(db, entry.ID, user.ID, nil, &high)
	if err != nil {
		t.Fatal("Failed to update wishlist entry:", err)
	}
	if updated.Priority != "high" {
		t.Errorf("Expected priority high, got %s", updated.Priority)
	}
	if updated.Notes != "for winter" {
		t.Errorf("Nil notes must keep the old value, got %q", updated.Notes)
	}

	// Owners of other entries cannot touch them.
	if _, err := UpdateWishlistEntry(db, entry.ID, owner.ID, nil, &high); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}

	found, err := CheckWishlist(db, user.ID, item.ID)
	if err != nil {
		t.Fatal("Failed to check wishlist:", err)
	}
	if found == nil {
		t.Fatal("Expected wishlist entry to exist")
	}

	if err := RemoveFromWishlist(db, entry.ID, user.ID); err != nil {
		t.Fatal("Failed to remove wishlist entry:", err)
	}
	found, err = CheckWishlist(db, user.ID, item.ID)
	if err != nil {
		t.Fatal("Failed to check wishlist:", err)
	}
	if found != nil {
		t.Error("Expected no wishlist entry after removal")
	}
}

func TestAdminStatsAndUsers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	admin := createTestUser(t, db, "Root", "root@example.com")
	if _, err := db.Exec(`UPDATE users SET is_admin = TRUE WHERE id = ?`, admin.ID); err != nil {
		t.Fatal("Failed to promote admin:", err)
	}

	owner := createTestUser(t, db, "Bea", "bea@example.com")
	requester := createTestUser(t, db, "Cal", "cal@example.com")
	item := createAvailableItem(t, db, owner.ID, "Trench coat")
	if _, err := CreateSwapRequest(db, item.ID, requester.ID, models.TypeSwap); err != nil {
		t.Fatal("Failed to create swap request:", err)
	}

	stats, err := GetAdminStats(db)
	if err != nil {
		t.Fatal("Failed to get admin stats:", err)
	}
	if stats.TotalUsers != 3 {
		t.Errorf("Expected 3 users, got %d", stats.TotalUsers)
	}
	if stats.AvailableItems != 1 || stats.PendingSwaps != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	users, err := GetAllUsersWithStats(db)
	if err != nil {
		t.Fatal("Failed to get users with stats:", err)
	}
	if len(users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID == owner.ID && u.ItemCount != 1 {
			t.Errorf("Expected owner item count 1, got %d", u.ItemCount)
		}
	}

	// Admins cannot revoke themselves.
	if _, err := SetUserAdmin(db, admin.ID, admin.ID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden on self-revoke, got %v", err)
	}

	promoted, err := SetUserAdmin(db, owner.ID, admin.ID, true)
	if err != nil {
		t.Fatal("Failed to promote user:", err)
	}
	if !promoted.IsAdmin {
		t.Error("Expected user to be admin after promotion")
	}
}

func TestUserLocation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "Dov", "dov@example.com")
	other := createTestUser(t, db, "Ema", "ema@example.com")

	updated, err := UpdateUserLocation(db, user.ID, LocationUpdate{
		Latitude:  48.8566,
		Longitude: 2.3522,
		City:      "Paris",
		Country:   "France",
	})
	if err != nil {
		t.Fatal("Failed to update location:", err)
	}
	if updated.Latitude == nil || *updated.Latitude != 48.8566 {
		t.Error("Expected latitude to be stored")
	}

	if _, err := UpdateUserLocation(db, other.ID, LocationUpdate{
		Latitude:  48.85,
		Longitude: 2.35,
		City:      "Paris",
		Country:   "France",
	}); err != nil {
		t.Fatal("Failed to update second location:", err)
	}

	// The exclude parameter removes the caller from the candidates.
	candidates, err := GetUsersWithLocation(db, user.ID)
	if err != nil {
		t.Fatal("Failed to get users with location:", err)
	}
	if len(candidates) != 1 || candidates[0].ID != other.ID {
		t.Errorf("Expected only the other user, got %d candidates", len(candidates))
	}
}

func TestTaxonomy(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	categories, err := GetCategories(db)
	if err != nil {
		t.Fatal("Failed to get categories:", err)
	}
	if len(categories) == 0 {
		t.Error("Expected seeded categories")
	}

	ok, err := ValidCategory(db, "tops")
	if err != nil || !ok {
		t.Errorf("Expected 'tops' to be valid, got ok=%v err=%v", ok, err)
	}
	ok, err = ValidCategory(db, "spaceships")
	if err != nil || ok {
		t.Errorf("Expected 'spaceships' to be invalid, got ok=%v err=%v", ok, err)
	}

	ok, err = ValidSize(db, "M")
	if err != nil || !ok {
		t.Errorf("Expected 'M' to be valid, got ok=%v err=%v", ok, err)
	}
	ok, err = ValidCondition(db, "like-new")
	if err != nil || !ok {
		t.Errorf("Expected 'like-new' to be valid, got ok=%v err=%v", ok, err)
	}
}
