package household

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	usersBucket         = "users"
	listsBucket         = "shopping_lists"
	shoppingItemsBucket = "shopping_items"
	transactionsBucket  = "transactions"
	roomsBucket         = "rooms"
	plantsBucket        = "plants"
	inventoryBucket     = "inventory_items"
	activitiesBucket    = "activities"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("record not found")

// DB defines the interface for household database operations
type DB interface {
	SaveUser(user *User) error
	GetUser(id string) (*User, error)
	ListUsers() ([]*User, error)

	SaveShoppingList(list *ShoppingList) error
	GetShoppingList(id string) (*ShoppingList, error)
	ListShoppingLists() ([]*ShoppingList, error)
	DeleteShoppingList(id string) error

	SaveShoppingItem(item *ShoppingItem) error
	GetShoppingItem(id string) (*ShoppingItem, error)
	ListShoppingItems(listID string) ([]*ShoppingItem, error)
	DeleteShoppingItem(id string) error

	SaveTransaction(tx *Transaction) error
	GetTransaction(id string) (*Transaction, error)
	ListTransactions() ([]*Transaction, error)
	DeleteTransaction(id string) error

	SaveRoom(room *Room) error
	GetRoom(id string) (*Room, error)
	ListRooms() ([]*Room, error)

	SavePlant(plant *Plant) error
	GetPlant(id string) (*Plant, error)
	ListPlants() ([]*Plant, error)
	DeletePlant(id string) error

	SaveInventoryItem(item *InventoryItem) error
	GetInventoryItem(id string) (*InventoryItem, error)
	ListInventoryItems() ([]*InventoryItem, error)
	DeleteInventoryItem(id string) error

	SaveActivity(activity *Activity) error
	ListActivities() ([]*Activity, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB, one bucket per record
// type with JSON-encoded values keyed by record ID.
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance and its buckets
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	buckets := []string{
		usersBucket, listsBucket, shoppingItemsBucket, transactionsBucket,
		roomsBucket, plantsBucket, inventoryBucket, activitiesBucket,
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) put(bucket, id string, record any) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return tx.Bucket([]byte(bucket)).Put([]byte(id), data)
	})
}

func (b *BoltDB) get(bucket, id string, record any) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, id)
		}
		return json.Unmarshal(data, record)
	})
}

func (b *BoltDB) delete(bucket, id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete([]byte(id))
	})
}

// forEach decodes every record in a bucket through fn
func (b *BoltDB) forEach(bucket string, fn func(data []byte) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
			return fn(v)
		})
	})
}

func (b *BoltDB) SaveUser(user *User) error { return b.put(usersBucket, user.ID, user) }

func (b *BoltDB) GetUser(id string) (*User, error) {
	var user User
	if err := b.get(usersBucket, id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (b *BoltDB) ListUsers() ([]*User, error) {
	users := make([]*User, 0)
	err := b.forEach(usersBucket, func(data []byte) error {
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return fmt.Errorf("unmarshaling user: %w", err)
		}
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (b *BoltDB) SaveShoppingList(list *ShoppingList) error {
	return b.put(listsBucket, list.ID, list)
}

func (b *BoltDB) GetShoppingList(id string) (*ShoppingList, error) {
	var list ShoppingList
	if err := b.get(listsBucket, id, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (b *BoltDB) ListShoppingLists() ([]*ShoppingList, error) {
	lists := make([]*ShoppingList, 0)
	err := b.forEach(listsBucket, func(data []byte) error {
		var list ShoppingList
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("unmarshaling shopping list: %w", err)
		}
		lists = append(lists, &list)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (b *BoltDB) DeleteShoppingList(id string) error { return b.delete(listsBucket, id) }

func (b *BoltDB) SaveShoppingItem(item *ShoppingItem) error {
	return b.put(shoppingItemsBucket, item.ID, item)
}

func (b *BoltDB) GetShoppingItem(id string) (*ShoppingItem, error) {
	var item ShoppingItem
	if err := b.get(shoppingItemsBucket, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListShoppingItems returns the items of one list; listID "" returns all
func (b *BoltDB) ListShoppingItems(listID string) ([]*ShoppingItem, error) {
	items := make([]*ShoppingItem, 0)
	err := b.forEach(shoppingItemsBucket, func(data []byte) error {
		var item ShoppingItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("unmarshaling shopping item: %w", err)
		}
		if listID == "" || item.ListID == listID {
			items = append(items, &item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (b *BoltDB) DeleteShoppingItem(id string) error { return b.delete(shoppingItemsBucket, id) }

func (b *BoltDB) SaveTransaction(tx *Transaction) error {
	return b.put(transactionsBucket, tx.ID, tx)
}

func (b *BoltDB) GetTransaction(id string) (*Transaction, error) {
	var tx Transaction
	if err := b.get(transactionsBucket, id, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (b *BoltDB) ListTransactions() ([]*Transaction, error) {
	transactions := make([]*Transaction, 0)
	err := b.forEach(transactionsBucket, func(data []byte) error {
		var tx Transaction
		if err := json.Unmarshal(data, &tx); err != nil {
			return fmt.Errorf("unmarshaling transaction: %w", err)
		}
		transactions = append(transactions, &tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (b *BoltDB) DeleteTransaction(id string) error { return b.delete(transactionsBucket, id) }

func (b *BoltDB) SaveRoom(room *Room) error { return b.put(roomsBucket, room.ID, room) }

func (b *BoltDB) GetRoom(id string) (*Room, error) {
	var room Room
	if err := b.get(roomsBucket, id, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (b *BoltDB) ListRooms() ([]*Room, error) {
	rooms := make([]*Room, 0)
	err := b.forEach(roomsBucket, func(data []byte) error {
		var room Room
		if err := json.Unmarshal(data, &room); err != nil {
			return fmt.Errorf("unmarshaling room: %w", err)
		}
		rooms = append(rooms, &room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (b *BoltDB) SavePlant(plant *Plant) error { return b.put(plantsBucket, plant.ID, plant) }

func (b *BoltDB) GetPlant(id string) (*Plant, error) {
	var plant Plant
	if err := b.get(plantsBucket, id, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

func (b *BoltDB) ListPlants() ([]*Plant, error) {
	plants := make([]*Plant, 0)
	err := b.forEach(plantsBucket, func(data []byte) error {
		var plant Plant
		if err := json.Unmarshal(data, &plant); err != nil {
			return fmt.Errorf("unmarshaling plant: %w", err)
		}
		plants = append(plants, &plant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plants, nil
}

func (b *BoltDB) DeletePlant(id string) error { return b.delete(plantsBucket, id) }

func (b *BoltDB) SaveInventoryItem(item *InventoryItem) error {
	return b.put(inventoryBucket, item.ID, item)
}

func (b *BoltDB) GetInventoryItem(id string) (*InventoryItem, error) {
	var item InventoryItem
	if err := b.get(inventoryBucket, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (b *BoltDB) ListInventoryItems() ([]*InventoryItem, error) {
	items := make([]*InventoryItem, 0)
	err := b.forEach(inventoryBucket, func(data []byte) error {
		var item InventoryItem
		if err := json.Unmarshal(data, &item); err != nil {
			return fmt.Errorf("unmarshaling inventory item: %w", err)
		}
		items = append(items, &item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (b *BoltDB) DeleteInventoryItem(id string) error { return b.delete(inventoryBucket, id) }

func (b *BoltDB) SaveActivity(activity *Activity) error {
	return b.put(activitiesBucket, activity.ID, activity)
}

func (b *BoltDB) ListActivities() ([]*Activity, error) {
	activities := make([]*Activity, 0)
	err := b.forEach(activitiesBucket, func(data []byte) error {
		var activity Activity
		if err := json.Unmarshal(data, &activity); err != nil {
			return fmt.Errorf("unmarshaling activity: %w", err)
		}
		activities = append(activities, &activity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
