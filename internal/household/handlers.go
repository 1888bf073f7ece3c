package household

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mgebhard/wg-tracker/internal/receipt"
	"github.com/mgebhard/wg-tracker/internal/scanning"
)

// maxUploadSize bounds receipt uploads; larger files should be compressed
// client-side before upload
const maxUploadSize = int64(10 << 20) // 10MB

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer failures to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scanning.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, scanning.ErrExtractionFailed):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// handleScanReceipt accepts a receipt upload and returns candidate items.
// Zero extracted items is a valid response with a hint, not an error: the
// client invites the user to retry with a clearer image.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		if strings.Contains(err.Error(), "request body too large") {
			msg = "File is too large. Maximum size is 10MB."
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	// Browsers and multipart writers that do not know the type send
	// octet-stream; recover the real type from the extension then
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExt(header.Filename)
	}

	result, err := s.service.ScanReceipt(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error scanning receipt", "filename", header.Filename, "error", err)
		writeServiceError(w, err)
		return
	}

	response := struct {
		*ScanResult
		Hint string `json:"hint,omitempty"`
	}{ScanResult: result}
	if len(result.Items) == 0 {
		response.Hint = "no_items_found"
	}
	writeJSON(w, http.StatusOK, response)
}

// contentTypeFromExt guesses a MIME type when the browser sent none
func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// expenseRequest carries the categorized items of one completed session
type expenseRequest struct {
	PaidByID string `json:"paid_by_id"`
	Items    []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Category string  `json:"category"`
	} `json:"items"`
}

// handleCreateExpenses persists categorized receipt items as transactions
// and returns the per-person totals alongside the created records
func (s *Server) handleCreateExpenses(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items := make([]receipt.CategorizedItem, 0, len(req.Items))
	for _, it := range req.Items {
		category, err := receipt.ParseCategory(it.Category)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, receipt.CategorizedItem{
			Item:     receipt.Item{Name: it.Name, Price: it.Price, Selected: true},
			Category: category,
		})
	}

	transactions, err := s.service.CreateExpenses(req.PaidByID, items)
	if err != nil {
		slog.Error("Error creating expenses", "error", err)
		writeServiceError(w, err)
		return
	}

	// Totals are relative to the payer: "me" is whoever paid
	split := s.service.Split()
	if req.PaidByID == split.PersonB {
		split.PersonA, split.PersonB = split.PersonB, split.PersonA
	}

	s.notify("expenses_created", "/api/transactions", "/api/balances", "/api/dashboard")
	writeJSON(w, http.StatusCreated, map[string]any{
		"transactions": transactions,
		"totals":       receipt.ComputeTotals(items, split),
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers()
	if err != nil {
		slog.Error("Error listing users", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListShoppingLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.service.ListShoppingLists()
	if err != nil {
		slog.Error("Error listing shopping lists", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateShoppingList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	list, err := s.service.CreateShoppingList(req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("shopping_list_created", "/api/shopping-lists", "/api/dashboard")
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) handleListShoppingItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListShoppingItems(r.PathValue("id"))
	if err != nil {
		slog.Error("Error listing shopping items", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		CostCents    int    `json:"cost_cents"`
		AssignedToID string `json:"assigned_to_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.service.AddShoppingItem(r.PathValue("id"), req.Name, req.CostCents, req.AssignedToID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("shopping_item_added", "/api/shopping-lists", "/api/dashboard")
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.service.ToggleShoppingItem(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("shopping_item_toggled", "/api/shopping-lists", "/api/dashboard")
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteShoppingItem(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("shopping_item_deleted", "/api/shopping-lists", "/api/dashboard")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.service.ListTransactions()
	if err != nil {
		slog.Error("Error listing transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description  string   `json:"description"`
		AmountCents  int      `json:"amount_cents"`
		PaidByID     string   `json:"paid_by_id"`
		SplitBetween []string `json:"split_between"`
		Category     string   `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := s.service.CreateTransaction(req.Description, req.AmountCents, req.PaidByID, req.SplitBetween, req.Category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("transaction_created", "/api/transactions", "/api/balances", "/api/dashboard")
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTransaction(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("transaction_deleted", "/api/transactions", "/api/balances", "/api/dashboard")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.service.Balances()
	if err != nil {
		slog.Error("Error computing balances", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms()
	if err != nil {
		slog.Error("Error listing rooms", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                  string `json:"name"`
		Icon                  string `json:"icon"`
		CleaningFrequencyDays int    `json:"cleaning_frequency_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := s.service.CreateRoom(req.Name, req.Icon, req.CleaningFrequencyDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("room_created", "/api/rooms", "/api/dashboard")
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleCleanRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := s.service.CleanRoom(r.PathValue("id"), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("room_cleaned", "/api/rooms", "/api/dashboard")
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.service.ListPlants()
	if err != nil {
		slog.Error("Error listing plants", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                  string `json:"name"`
		Location              string `json:"location"`
		WateringFrequencyDays int    `json:"watering_frequency_days"`
		Notes                 string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plant, err := s.service.CreatePlant(req.Name, req.Location, req.WateringFrequencyDays, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("plant_created", "/api/plants", "/api/dashboard")
	writeJSON(w, http.StatusCreated, plant)
}

func (s *Server) handleWaterPlant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plant, err := s.service.WaterPlant(r.PathValue("id"), req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("plant_watered", "/api/plants", "/api/dashboard")
	writeJSON(w, http.StatusOK, plant)
}

func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePlant(r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("plant_deleted", "/api/plants", "/api/dashboard")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListInventoryItems()
	if err != nil {
		slog.Error("Error listing inventory", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string `json:"name"`
		Category          string `json:"category"`
		CurrentStock      int    `json:"current_stock"`
		MinStockLevel     int    `json:"min_stock_level"`
		Unit              string `json:"unit"`
		AutoAddToShopping bool   `json:"auto_add_to_shopping"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.service.CreateInventoryItem(req.Name, req.Category, req.CurrentStock, req.MinStockLevel, req.Unit, req.AutoAddToShopping)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("inventory_item_created", "/api/inventory", "/api/dashboard")
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleRestockItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.service.RestockItem(r.PathValue("id"), req.UserID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("inventory_restocked", "/api/inventory", "/api/dashboard")
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleConsumeItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.service.ConsumeItem(r.PathValue("id"), req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.notify("inventory_consumed", "/api/inventory", "/api/shopping-lists", "/api/dashboard")
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.service.GetDashboard()
	if err != nil {
		slog.Error("Error assembling dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
