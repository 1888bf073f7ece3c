package household

import "time"

// User is one of the two household members
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Color       string `json:"color"`
}

// ShoppingList groups shopping items; one list is active at a time
type ShoppingList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingItem is a single entry on a shopping list
type ShoppingItem struct {
	ID           string    `json:"id"`
	ListID       string    `json:"list_id"`
	Name         string    `json:"name"`
	CostCents    int       `json:"cost_cents,omitempty"` // 0 when unknown
	AssignedToID string    `json:"assigned_to_id,omitempty"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction is a single expense record. Amount is in cents. SplitBetween
// lists the user IDs sharing the cost equally; the payer's balance gains the
// shares owed by everyone else.
type Transaction struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Amount       int       `json:"amount"` // Amount in cents
	PaidByID     string    `json:"paid_by_id"`
	SplitBetween []string  `json:"split_between"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
}

// Room carries a cleaning schedule
type Room struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Icon                  string    `json:"icon"`
	CleaningFrequencyDays int       `json:"cleaning_frequency_days"`
	LastCleanedAt         time.Time `json:"last_cleaned_at"`
	LastCleanedByID       string    `json:"last_cleaned_by_id,omitempty"`
}

// Plant carries a watering schedule
type Plant struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Location              string    `json:"location"`
	WateringFrequencyDays int       `json:"watering_frequency_days"`
	LastWateredAt         time.Time `json:"last_watered_at"`
	LastWateredByID       string    `json:"last_watered_by_id,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
}

// InventoryItem tracks a household consumable. When stock drops to the
// minimum level and AutoAddToShopping is set, the item lands on the active
// shopping list.
type InventoryItem struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"` // bathroom, kitchen, cleaning, personal
	CurrentStock      int       `json:"current_stock"`
	MinStockLevel     int       `json:"min_stock_level"`
	Unit              string    `json:"unit"` // rolls, bottles, boxes, pieces
	LastRestockedAt   time.Time `json:"last_restocked_at"`
	LastRestockedByID string    `json:"last_restocked_by_id,omitempty"`
	AutoAddToShopping bool      `json:"auto_add_to_shopping"`
	CreatedAt         time.Time `json:"created_at"`
}

// Activity is one entry in the household activity feed
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	RelatedID   string    `json:"related_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
