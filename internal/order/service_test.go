package order

import (
	"testing"

	"quanan-backend/internal/apperrors"
	"quanan-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Account{},
		&models.RefreshToken{},
		&models.Table{},
		&models.Guest{},
		&models.Dish{},
		&models.DishSnapshot{},
		&models.Order{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB) models.Account {
	t.Helper()
	a := models.Account{Name: "Hoa", Email: "hoa@example.com", PasswordHash: "x", Role: models.RoleEmployee}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return a
}

func seedGuestOrder(t *testing.T, db *gorm.DB, guestID uint, dish models.Dish, qty int, status models.OrderStatus) models.Order {
	t.Helper()

	table := 7
	snap := models.DishSnapshot{Name: dish.Name, Price: dish.Price, Status: dish.Status, DishID: &dish.ID}
	if err := db.Create(&snap).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	o := models.Order{
		GuestID:        &guestID,
		TableNumber:    &table,
		DishSnapshotID: snap.ID,
		Quantity:       qty,
		Status:         status,
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	o.DishSnapshot = snap
	return o
}

func seedDish(t *testing.T, db *gorm.DB, name string, price int64) models.Dish {
	t.Helper()
	d := models.Dish{Name: name, Price: price, Status: models.DishStatusAvailable}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed dish: %v", err)
	}
	return d
}

func seedGuest(t *testing.T, db *gorm.DB) models.Guest {
	t.Helper()
	table := 7
	g := models.Guest{Name: "An", TableNumber: &table}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed guest: %v", err)
	}
	return g
}

func TestUpdateClaimsAndAdvancesOrder(t *testing.T) {
	db := newTestDB(t)
	emp := seedEmployee(t, db)
	g := seedGuest(t, db)
	pho := seedDish(t, db, "Pho", 50000)
	ord := seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusPending)

	got, err := Update(db, ord.ID, UpdateParams{Status: models.OrderStatusProcessing, HandlerID: emp.ID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Status != models.OrderStatusProcessing {
		t.Errorf("status = %s, want Processing", got.Status)
	}
	if got.OrderHandlerID == nil || *got.OrderHandlerID != emp.ID {
		t.Errorf("handler = %v, want employee %d", got.OrderHandlerID, emp.ID)
	}
	if got.DishSnapshotID != ord.DishSnapshotID {
		t.Errorf("snapshot changed on a plain status update")
	}
}

func TestUpdateDishSwapMintsFreshSnapshot(t *testing.T) {
	db := newTestDB(t)
	emp := seedEmployee(t, db)
	g := seedGuest(t, db)
	pho := seedDish(t, db, "Pho", 50000)
	bun := seedDish(t, db, "Bun cha", 45000)
	ord := seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusPending)

	qty := 2
	got, err := Update(db, ord.ID, UpdateParams{
		Status:    models.OrderStatusProcessing,
		DishID:    &bun.ID,
		Quantity:  &qty,
		HandlerID: emp.ID,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got.DishSnapshotID == ord.DishSnapshotID {
		t.Fatalf("dish swap reused the old snapshot")
	}
	if got.DishSnapshot.Name != "Bun cha" || got.DishSnapshot.Price != 45000 {
		t.Errorf("new snapshot = %s %d, want Bun cha 45000", got.DishSnapshot.Name, got.DishSnapshot.Price)
	}
	if got.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", got.Quantity)
	}

	// old snapshot is history, not garbage
	var old models.DishSnapshot
	if err := db.First(&old, ord.DishSnapshotID).Error; err != nil {
		t.Fatalf("old snapshot gone: %v", err)
	}
	if old.Name != "Pho" || old.Price != 50000 {
		t.Errorf("old snapshot mutated: %s %d", old.Name, old.Price)
	}
}

func TestUpdateRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	emp := seedEmployee(t, db)
	g := seedGuest(t, db)
	pho := seedDish(t, db, "Pho", 50000)
	ord := seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusPending)

	if _, err := Update(db, ord.ID, UpdateParams{Status: "Eaten", HandlerID: emp.ID}); !apperrors.IsInvalidState(err) {
		t.Errorf("unknown status: err = %v, want InvalidStateError", err)
	}
	if _, err := Update(db, 999, UpdateParams{Status: models.OrderStatusProcessing, HandlerID: emp.ID}); !apperrors.IsNotFound(err) {
		t.Errorf("unknown order: err = %v, want NotFoundError", err)
	}
	zero := 0
	if _, err := Update(db, ord.ID, UpdateParams{Status: models.OrderStatusProcessing, Quantity: &zero, HandlerID: emp.ID}); !apperrors.IsInvalidState(err) {
		t.Errorf("zero quantity: err = %v, want InvalidStateError", err)
	}
	missing := uint(999)
	if _, err := Update(db, ord.ID, UpdateParams{Status: models.OrderStatusProcessing, DishID: &missing, HandlerID: emp.ID}); !apperrors.IsNotFound(err) {
		t.Errorf("unknown dish: err = %v, want NotFoundError", err)
	}
}

func TestPayGuestOrders(t *testing.T) {
	db := newTestDB(t)
	emp := seedEmployee(t, db)
	g := seedGuest(t, db)
	pho := seedDish(t, db, "Pho", 50000)

	seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusPending)
	seedGuestOrder(t, db, g.ID, pho, 2, models.OrderStatusProcessing)
	seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusDelivered)
	rejected := seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusRejected)
	already := seedGuestOrder(t, db, g.ID, pho, 1, models.OrderStatusPaid)

	paid, err := PayGuestOrders(db, g.ID, emp.ID)
	if err != nil {
		t.Fatalf("PayGuestOrders: %v", err)
	}
	if len(paid) != 3 {
		t.Fatalf("settled %d orders, want 3", len(paid))
	}
	for _, o := range paid {
		if o.Status != models.OrderStatusPaid {
			t.Errorf("order %d status = %s, want Paid", o.ID, o.Status)
		}
		if o.OrderHandlerID == nil || *o.OrderHandlerID != emp.ID {
			t.Errorf("order %d handler = %v, want employee %d", o.ID, o.OrderHandlerID, emp.ID)
		}
		if o.ID == rejected.ID || o.ID == already.ID {
			t.Errorf("order %d should not be part of this settlement", o.ID)
		}
	}

	var still models.Order
	if err := db.First(&still, rejected.ID).Error; err != nil {
		t.Fatalf("reload rejected: %v", err)
	}
	if still.Status != models.OrderStatusRejected {
		t.Errorf("rejected order flipped to %s", still.Status)
	}

	// nothing left to settle
	if _, err := PayGuestOrders(db, g.ID, emp.ID); !apperrors.IsInvalidState(err) {
		t.Errorf("second settlement: err = %v, want InvalidStateError", err)
	}
}
