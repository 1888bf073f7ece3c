package household

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("users", func() {
		It("should round-trip a user", func() {
			user := &User{ID: "alex", Username: "alex", DisplayName: "Alex", Color: "#7c3aed"}
			Expect(db.SaveUser(user)).To(Succeed())

			got, err := db.GetUser("alex")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(user))
		})

		It("should return ErrNotFound for a missing user", func() {
			_, err := db.GetUser("nope")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should list all users", func() {
			Expect(db.SaveUser(&User{ID: "alex"})).To(Succeed())
			Expect(db.SaveUser(&User{ID: "maya"})).To(Succeed())

			users, err := db.ListUsers()
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})
	})

	Describe("shopping items", func() {
		BeforeEach(func() {
			Expect(db.SaveShoppingItem(&ShoppingItem{ID: "i1", ListID: "l1", Name: "Milch"})).To(Succeed())
			Expect(db.SaveShoppingItem(&ShoppingItem{ID: "i2", ListID: "l1", Name: "Brot"})).To(Succeed())
			Expect(db.SaveShoppingItem(&ShoppingItem{ID: "i3", ListID: "l2", Name: "Seife"})).To(Succeed())
		})

		It("should filter items by list", func() {
			items, err := db.ListShoppingItems("l1")
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(2))
		})

		It("should list across lists for an empty list ID", func() {
			items, err := db.ListShoppingItems("")
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(3))
		})

		It("should delete an item", func() {
			Expect(db.DeleteShoppingItem("i1")).To(Succeed())
			_, err := db.GetShoppingItem("i1")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("transactions", func() {
		It("should round-trip a transaction with its split", func() {
			tx := &Transaction{
				ID:           "t1",
				Description:  "Wocheneinkauf",
				Amount:       4250,
				PaidByID:     "alex",
				SplitBetween: []string{"alex", "maya"},
				Category:     "shared",
				CreatedAt:    time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
			}
			Expect(db.SaveTransaction(tx)).To(Succeed())

			got, err := db.GetTransaction("t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(tx))
		})

		It("should delete a transaction", func() {
			Expect(db.SaveTransaction(&Transaction{ID: "t1"})).To(Succeed())
			Expect(db.DeleteTransaction("t1")).To(Succeed())

			transactions, err := db.ListTransactions()
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(BeEmpty())
		})
	})

	Describe("rooms and plants", func() {
		It("should persist chore timestamps", func() {
			cleaned := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
			room := &Room{ID: "r1", Name: "Bad", CleaningFrequencyDays: 7, LastCleanedAt: cleaned, LastCleanedByID: "maya"}
			Expect(db.SaveRoom(room)).To(Succeed())

			got, err := db.GetRoom("r1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.LastCleanedAt).To(Equal(cleaned))
			Expect(got.LastCleanedByID).To(Equal("maya"))
		})

		It("should delete a plant", func() {
			Expect(db.SavePlant(&Plant{ID: "p1", Name: "Monstera"})).To(Succeed())
			Expect(db.DeletePlant("p1")).To(Succeed())
			_, err := db.GetPlant("p1")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("inventory", func() {
		It("should round-trip an inventory item", func() {
			item := &InventoryItem{
				ID:                "i1",
				Name:              "Toilettenpapier",
				Category:          "bathroom",
				CurrentStock:      6,
				MinStockLevel:     2,
				Unit:              "rolls",
				AutoAddToShopping: true,
			}
			Expect(db.SaveInventoryItem(item)).To(Succeed())

			got, err := db.GetInventoryItem("i1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(item))
		})
	})

	Describe("activities", func() {
		It("should append and list feed entries", func() {
			Expect(db.SaveActivity(&Activity{ID: "a1", Type: "expense"})).To(Succeed())
			Expect(db.SaveActivity(&Activity{ID: "a2", Type: "cleaning"})).To(Succeed())

			activities, err := db.ListActivities()
			Expect(err).NotTo(HaveOccurred())
			Expect(activities).To(HaveLen(2))
		})
	})

	Describe("persistence across reopens", func() {
		It("should keep records after closing and reopening", func() {
			Expect(db.SaveUser(&User{ID: "alex", Username: "alex"})).To(Succeed())
			Expect(db.Close()).To(Succeed())

			reopened, err := NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer reopened.Close()

			got, err := reopened.GetUser("alex")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Username).To(Equal("alex"))
		})
	})
})
