package household

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mgebhard/wg-tracker/internal/receipt"
)

// TextExtractor obtains raw text from an uploaded receipt file
type TextExtractor interface {
	ExtractText(data []byte, contentType string) (string, error)
}

// IDGenerator generates unique IDs for records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles household operations
type Service struct {
	db        DB
	extractor TextExtractor
	files     Storage
	split     receipt.SplitConfig
	ids       IDGenerator
	clock     TimeSource
}

// NewService creates a Service with default ID generator and time source
func NewService(db DB, extractor TextExtractor, files Storage, split receipt.SplitConfig) *Service {
	return &Service{
		db:        db,
		extractor: extractor,
		files:     files,
		split:     split,
		ids:       &uuidGenerator{},
		clock:     &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor TextExtractor, files Storage, split receipt.SplitConfig, ids IDGenerator, clock TimeSource) *Service {
	return &Service{
		db:        db,
		extractor: extractor,
		files:     files,
		split:     split,
		ids:       ids,
		clock:     clock,
	}
}

// Split returns the configured two-party split
func (s *Service) Split() receipt.SplitConfig {
	return s.split
}

var (
	filenameJunk   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before storing
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameJunk.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}
	return base + ext
}

// ScanResult is what a receipt upload yields: the stored file reference and
// the candidate items awaiting review. Items may be empty; that is a normal
// "no items found" outcome, not an error.
type ScanResult struct {
	ReceiptFile string         `json:"receipt_file"`
	Items       []receipt.Item `json:"items"`
}

// ScanReceipt stores the uploaded file, extracts its text, and parses
// candidate line items. The stored file is removed again when extraction
// fails, so retries do not accumulate garbage.
func (s *Service) ScanReceipt(filename string, data []byte, contentType string) (*ScanResult, error) {
	id := s.ids.Generate()
	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.files.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.extractor.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to extract receipt text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.files.Delete(savedPath)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	items := receipt.ParseItems(text)
	if len(items) == 0 {
		slog.Info("No items found on receipt", "filename", filename)
	}

	return &ScanResult{ReceiptFile: savedPath, Items: items}, nil
}

// CreateExpenses turns categorized receipt items into transaction records.
// Each item becomes one transaction: a personal item is split to exactly its
// owner, a shared item to both household members.
func (s *Service) CreateExpenses(paidByID string, items []receipt.CategorizedItem) ([]*Transaction, error) {
	other, err := s.otherParty(paidByID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one categorized item is required")
	}

	now := s.clock.Now()
	transactions := make([]*Transaction, 0, len(items))
	for _, item := range items {
		var split []string
		switch item.Category {
		case receipt.CategoryMe:
			split = []string{paidByID}
		case receipt.CategoryRoommate:
			split = []string{other}
		case receipt.CategoryShared:
			split = []string{paidByID, other}
		default:
			return nil, fmt.Errorf("item %q has unknown category %v", item.Name, item.Category)
		}

		tx := &Transaction{
			ID:           s.ids.Generate(),
			Description:  item.Name,
			Amount:       int(math.Round(item.Price * 100)),
			PaidByID:     paidByID,
			SplitBetween: split,
			Category:     item.Category.String(),
			CreatedAt:    now,
		}
		if err := s.db.SaveTransaction(tx); err != nil {
			return nil, fmt.Errorf("saving transaction for %q: %w", item.Name, err)
		}
		transactions = append(transactions, tx)
	}

	totals := receipt.ComputeTotals(items, s.split)
	s.logActivity(paidByID, "expense",
		fmt.Sprintf("Added %d expenses from a receipt (%.2f total)", len(items), totals.Sum()), "")

	return transactions, nil
}

// otherParty resolves the non-paying household member
func (s *Service) otherParty(paidByID string) (string, error) {
	switch paidByID {
	case s.split.PersonA:
		return s.split.PersonB, nil
	case s.split.PersonB:
		return s.split.PersonA, nil
	default:
		return "", fmt.Errorf("payer %q is not a household member", paidByID)
	}
}

// EnsureUser creates the user if it does not exist yet
func (s *Service) EnsureUser(user User) error {
	if _, err := s.db.GetUser(user.ID); err == nil {
		return nil
	}
	if err := s.db.SaveUser(&user); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// ListUsers returns all household members
func (s *Service) ListUsers() ([]*User, error) {
	return s.db.ListUsers()
}

// CreateShoppingList creates a new shopping list
func (s *Service) CreateShoppingList(name string) (*ShoppingList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("list name is required")
	}
	list := &ShoppingList{
		ID:        s.ids.Generate(),
		Name:      strings.TrimSpace(name),
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}
	if err := s.db.SaveShoppingList(list); err != nil {
		return nil, fmt.Errorf("saving shopping list: %w", err)
	}
	return list, nil
}

// ListShoppingLists returns all shopping lists
func (s *Service) ListShoppingLists() ([]*ShoppingList, error) {
	return s.db.ListShoppingLists()
}

// AddShoppingItem adds an item to a list
func (s *Service) AddShoppingItem(listID, name string, costCents int, assignedToID string) (*ShoppingItem, error) {
	if _, err := s.db.GetShoppingList(listID); err != nil {
		return nil, fmt.Errorf("getting shopping list: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name is required")
	}

	item := &ShoppingItem{
		ID:           s.ids.Generate(),
		ListID:       listID,
		Name:         strings.TrimSpace(name),
		CostCents:    costCents,
		AssignedToID: assignedToID,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.db.SaveShoppingItem(item); err != nil {
		return nil, fmt.Errorf("saving shopping item: %w", err)
	}
	return item, nil
}

// ListShoppingItems returns the items of one list
func (s *Service) ListShoppingItems(listID string) ([]*ShoppingItem, error) {
	return s.db.ListShoppingItems(listID)
}

// ToggleShoppingItem flips an item's completed flag
func (s *Service) ToggleShoppingItem(id string) (*ShoppingItem, error) {
	item, err := s.db.GetShoppingItem(id)
	if err != nil {
		return nil, fmt.Errorf("getting shopping item: %w", err)
	}
	item.IsCompleted = !item.IsCompleted
	if err := s.db.SaveShoppingItem(item); err != nil {
		return nil, fmt.Errorf("saving shopping item: %w", err)
	}
	return item, nil
}

// DeleteShoppingItem removes an item
func (s *Service) DeleteShoppingItem(id string) error {
	return s.db.DeleteShoppingItem(id)
}

// CreateTransaction records a manually entered expense
func (s *Service) CreateTransaction(description string, amountCents int, paidByID string, splitBetween []string, category string) (*Transaction, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if len(splitBetween) == 0 {
		return nil, fmt.Errorf("split_between must name at least one member")
	}

	tx := &Transaction{
		ID:           s.ids.Generate(),
		Description:  strings.TrimSpace(description),
		Amount:       amountCents,
		PaidByID:     paidByID,
		SplitBetween: splitBetween,
		Category:     category,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.db.SaveTransaction(tx); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	s.logActivity(paidByID, "expense", fmt.Sprintf("Added expense %q", tx.Description), tx.ID)
	return tx, nil
}

// ListTransactions returns all transactions, newest first
func (s *Service) ListTransactions() ([]*Transaction, error) {
	transactions, err := s.db.ListTransactions()
	if err != nil {
		return nil, err
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

// DeleteTransaction removes a transaction
func (s *Service) DeleteTransaction(id string) error {
	if _, err := s.db.GetTransaction(id); err != nil {
		return fmt.Errorf("getting transaction: %w", err)
	}
	return s.db.DeleteTransaction(id)
}

// Balances computes each member's running balance in euros. The payer of a
// transaction gains what the others owe; everyone else in the split loses
// their equal share.
func (s *Service) Balances() (map[string]float64, error) {
	transactions, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	balances := map[string]float64{
		s.split.PersonA: 0,
		s.split.PersonB: 0,
	}
	for _, tx := range transactions {
		amount := float64(tx.Amount) / 100
		perShare := amount / float64(len(tx.SplitBetween))

		if _, ok := balances[tx.PaidByID]; ok {
			balances[tx.PaidByID] += amount - perShare
		}
		for _, userID := range tx.SplitBetween {
			if userID == tx.PaidByID {
				continue
			}
			if _, ok := balances[userID]; ok {
				balances[userID] -= perShare
			}
		}
	}
	return balances, nil
}

// CreateRoom adds a room with a cleaning schedule
func (s *Service) CreateRoom(name, icon string, cleaningFrequencyDays int) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("room name is required")
	}
	if cleaningFrequencyDays <= 0 {
		return nil, fmt.Errorf("cleaning frequency must be positive")
	}
	room := &Room{
		ID:                    s.ids.Generate(),
		Name:                  strings.TrimSpace(name),
		Icon:                  icon,
		CleaningFrequencyDays: cleaningFrequencyDays,
	}
	if err := s.db.SaveRoom(room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	return room, nil
}

// ListRooms returns all rooms
func (s *Service) ListRooms() ([]*Room, error) {
	return s.db.ListRooms()
}

// CleanRoom marks a room as cleaned now by the given user
func (s *Service) CleanRoom(id, userID string) (*Room, error) {
	room, err := s.db.GetRoom(id)
	if err != nil {
		return nil, fmt.Errorf("getting room: %w", err)
	}
	room.LastCleanedAt = s.clock.Now()
	room.LastCleanedByID = userID
	if err := s.db.SaveRoom(room); err != nil {
		return nil, fmt.Errorf("saving room: %w", err)
	}
	s.logActivity(userID, "cleaning", fmt.Sprintf("Cleaned %s", room.Name), room.ID)
	return room, nil
}

// CreatePlant adds a plant with a watering schedule
func (s *Service) CreatePlant(name, location string, wateringFrequencyDays int, notes string) (*Plant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("plant name is required")
	}
	if wateringFrequencyDays <= 0 {
		return nil, fmt.Errorf("watering frequency must be positive")
	}
	plant := &Plant{
		ID:                    s.ids.Generate(),
		Name:                  strings.TrimSpace(name),
		Location:              location,
		WateringFrequencyDays: wateringFrequencyDays,
		Notes:                 notes,
	}
	if err := s.db.SavePlant(plant); err != nil {
		return nil, fmt.Errorf("saving plant: %w", err)
	}
	return plant, nil
}

// ListPlants returns all plants
func (s *Service) ListPlants() ([]*Plant, error) {
	return s.db.ListPlants()
}

// WaterPlant marks a plant as watered now by the given user
func (s *Service) WaterPlant(id, userID string) (*Plant, error) {
	plant, err := s.db.GetPlant(id)
	if err != nil {
		return nil, fmt.Errorf("getting plant: %w", err)
	}
	plant.LastWateredAt = s.clock.Now()
	plant.LastWateredByID = userID
	if err := s.db.SavePlant(plant); err != nil {
		return nil, fmt.Errorf("saving plant: %w", err)
	}
	s.logActivity(userID, "plant", fmt.Sprintf("Watered %s", plant.Name), plant.ID)
	return plant, nil
}

// DeletePlant removes a plant
func (s *Service) DeletePlant(id string) error {
	return s.db.DeletePlant(id)
}

// CreateInventoryItem adds a tracked consumable
func (s *Service) CreateInventoryItem(name, category string, currentStock, minStockLevel int, unit string, autoAdd bool) (*InventoryItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name is required")
	}
	item := &InventoryItem{
		ID:                s.ids.Generate(),
		Name:              strings.TrimSpace(name),
		Category:          category,
		CurrentStock:      currentStock,
		MinStockLevel:     minStockLevel,
		Unit:              unit,
		AutoAddToShopping: autoAdd,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.db.SaveInventoryItem(item); err != nil {
		return nil, fmt.Errorf("saving inventory item: %w", err)
	}
	return item, nil
}

// ListInventoryItems returns all tracked consumables
func (s *Service) ListInventoryItems() ([]*InventoryItem, error) {
	return s.db.ListInventoryItems()
}

// RestockItem raises stock and records who restocked
func (s *Service) RestockItem(id, userID string, quantity int) (*InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive")
	}
	item, err := s.db.GetInventoryItem(id)
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	item.CurrentStock += quantity
	item.LastRestockedAt = s.clock.Now()
	item.LastRestockedByID = userID
	if err := s.db.SaveInventoryItem(item); err != nil {
		return nil, fmt.Errorf("saving inventory item: %w", err)
	}
	return item, nil
}

// ConsumeItem lowers stock. When stock sinks to the minimum level and the
// item is flagged for it, the item is placed on the active shopping list.
func (s *Service) ConsumeItem(id string, quantity int) (*InventoryItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("consume quantity must be positive")
	}
	item, err := s.db.GetInventoryItem(id)
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}

	item.CurrentStock -= quantity
	if item.CurrentStock < 0 {
		item.CurrentStock = 0
	}
	if err := s.db.SaveInventoryItem(item); err != nil {
		return nil, fmt.Errorf("saving inventory item: %w", err)
	}

	if item.AutoAddToShopping && item.CurrentStock <= item.MinStockLevel {
		if err := s.autoAddToShopping(item); err != nil {
			slog.Warn("Failed to auto-add low-stock item to shopping list",
				"item", item.Name, "error", err)
		}
	}
	return item, nil
}

// autoAddToShopping puts a low-stock item on the first active shopping list,
// skipping when it is already there and unbought
func (s *Service) autoAddToShopping(item *InventoryItem) error {
	lists, err := s.db.ListShoppingLists()
	if err != nil {
		return err
	}
	var active *ShoppingList
	for _, list := range lists {
		if list.IsActive {
			active = list
			break
		}
	}
	if active == nil {
		return fmt.Errorf("no active shopping list")
	}

	existing, err := s.db.ListShoppingItems(active.ID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if !e.IsCompleted && strings.EqualFold(e.Name, item.Name) {
			return nil
		}
	}

	entry := &ShoppingItem{
		ID:        s.ids.Generate(),
		ListID:    active.ID,
		Name:      item.Name,
		CreatedAt: s.clock.Now(),
	}
	if err := s.db.SaveShoppingItem(entry); err != nil {
		return err
	}
	slog.Info("Auto-added low-stock item to shopping list", "item", item.Name, "list", active.Name)
	return nil
}

// Task is a due or overdue chore shown on the dashboard
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"` // plant or cleaning
	DaysOverdue int    `json:"days_overdue,omitempty"`
}

// Dashboard aggregates the home screen: balances, chores, recent activity
type Dashboard struct {
	Balances         map[string]float64 `json:"balances"`
	UrgentTasks      []Task             `json:"urgent_tasks"`
	TodayTasks       []Task             `json:"today_tasks"`
	TaskCount        int                `json:"task_count"`
	RecentActivities []*Activity        `json:"recent_activities"`
}

// GetDashboard assembles the dashboard view
func (s *Service) GetDashboard() (*Dashboard, error) {
	balances, err := s.Balances()
	if err != nil {
		return nil, err
	}
	plants, err := s.db.ListPlants()
	if err != nil {
		return nil, fmt.Errorf("listing plants: %w", err)
	}
	rooms, err := s.db.ListRooms()
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	activities, err := s.recentActivities(5)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	urgent := make([]Task, 0)
	today := make([]Task, 0)

	for _, plant := range plants {
		if plant.LastWateredAt.IsZero() {
			continue
		}
		due := plant.LastWateredAt.AddDate(0, 0, plant.WateringFrequencyDays)
		switch {
		case due.Before(now):
			urgent = append(urgent, Task{
				ID:          plant.ID,
				Title:       fmt.Sprintf("Water %s", plant.Name),
				Type:        "plant",
				DaysOverdue: int(now.Sub(due).Hours() / 24),
			})
		case due.Before(now.AddDate(0, 0, 1)):
			today = append(today, Task{
				ID:    plant.ID,
				Title: fmt.Sprintf("Water %s", plant.Name),
				Type:  "plant",
			})
		}
	}

	for _, room := range rooms {
		if room.LastCleanedAt.IsZero() {
			continue
		}
		due := room.LastCleanedAt.AddDate(0, 0, room.CleaningFrequencyDays)
		switch {
		case due.Before(now):
			urgent = append(urgent, Task{
				ID:          room.ID,
				Title:       fmt.Sprintf("Clean %s", room.Name),
				Type:        "cleaning",
				DaysOverdue: int(now.Sub(due).Hours() / 24),
			})
		case due.Before(now.AddDate(0, 0, 1)):
			today = append(today, Task{
				ID:    room.ID,
				Title: fmt.Sprintf("Clean %s", room.Name),
				Type:  "cleaning",
			})
		}
	}

	return &Dashboard{
		Balances:         balances,
		UrgentTasks:      urgent,
		TodayTasks:       today,
		TaskCount:        len(urgent) + len(today),
		RecentActivities: activities,
	}, nil
}

// recentActivities returns the newest n feed entries
func (s *Service) recentActivities(n int) ([]*Activity, error) {
	activities, err := s.db.ListActivities()
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})
	if len(activities) > n {
		activities = activities[:n]
	}
	return activities, nil
}

// logActivity records a feed entry; feed failures never fail the action
func (s *Service) logActivity(userID, activityType, description, relatedID string) {
	activity := &Activity{
		ID:          s.ids.Generate(),
		UserID:      userID,
		Type:        activityType,
		Description: description,
		RelatedID:   relatedID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.db.SaveActivity(activity); err != nil {
		slog.Warn("Failed to record activity", "type", activityType, "error", err)
	}
}
