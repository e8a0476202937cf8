package indicator

import (
	"testing"
	"time"

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

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func seedDish(t *testing.T, db *gorm.DB, name string, price int64) models.Dish {
	t.Helper()
	d := models.Dish{Name: name, Price: price, Status: models.DishStatusAvailable}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed dish %s: %v", name, err)
	}
	return d
}

func seedGuest(t *testing.T, db *gorm.DB, name string, table int, createdAt time.Time) models.Guest {
	t.Helper()
	g := models.Guest{Name: name, TableNumber: &table, CreatedAt: createdAt}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("seed guest %s: %v", name, err)
	}
	return g
}

// seedOrder writes a snapshot+order pair directly, the way historical
// rows would look, with an explicit creation time.
func seedOrder(t *testing.T, db *gorm.DB, g models.Guest, dishID *uint, price int64, qty int, status models.OrderStatus, table int, createdAt time.Time) models.Order {
	t.Helper()

	snap := models.DishSnapshot{Name: "snap", Price: price, Status: models.DishStatusAvailable, DishID: dishID}
	if err := db.Create(&snap).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	o := models.Order{
		GuestID:        &g.ID,
		TableNumber:    &table,
		DishSnapshotID: snap.ID,
		Quantity:       qty,
		Status:         status,
		CreatedAt:      createdAt,
	}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return o
}

func dayRange(loc *time.Location, fromDay, toDay string) (time.Time, time.Time) {
	from, _ := time.ParseInLocation("2006-01-02", fromDay, loc)
	to, _ := time.ParseInLocation("2006-01-02", toDay, loc)
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}

func TestComputeIndicatorsSingleOrderWindow(t *testing.T) {
	db := newTestDB(t)
	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	pho := seedDish(t, db, "Pho", 100000)
	from, to := dayRange(loc, "2024-01-01", "2024-01-03")

	g := seedGuest(t, db, "An", 5, time.Date(2024, 1, 2, 11, 0, 0, 0, loc))
	seedOrder(t, db, g, &pho.ID, 100000, 1, models.OrderStatusPaid, 5,
		time.Date(2024, 1, 2, 12, 0, 0, 0, loc))

	rep, err := ComputeIndicators(db, loc, from, to)
	if err != nil {
		t.Fatalf("ComputeIndicators: %v", err)
	}

	if rep.Revenue != 100000 {
		t.Errorf("revenue = %d, want 100000", rep.Revenue)
	}
	if rep.GuestCount != 1 {
		t.Errorf("guest count = %d, want 1", rep.GuestCount)
	}
	if rep.OrderCount != 1 {
		t.Errorf("order count = %d, want 1", rep.OrderCount)
	}
	if rep.ServingTableCount != 0 {
		t.Errorf("serving tables = %d, want 0 (paid orders do not serve)", rep.ServingTableCount)
	}

	want := []RevenueByDate{
		{Date: "01/01/2024", Revenue: 0},
		{Date: "02/01/2024", Revenue: 100000},
		{Date: "03/01/2024", Revenue: 0},
	}
	if len(rep.RevenueByDate) != len(want) {
		t.Fatalf("got %d day buckets, want %d: %v", len(rep.RevenueByDate), len(want), rep.RevenueByDate)
	}
	for i, w := range want {
		if rep.RevenueByDate[i] != w {
			t.Errorf("bucket %d = %+v, want %+v", i, rep.RevenueByDate[i], w)
		}
	}
}

func TestComputeIndicatorsTotalsAndDishes(t *testing.T) {
	db := newTestDB(t)
	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	pho := seedDish(t, db, "Pho", 50000)
	banhMi := seedDish(t, db, "Banh mi", 25000)
	cafe := seedDish(t, db, "Ca phe", 20000) // zero activity

	from, to := dayRange(loc, "2024-03-01", "2024-03-02")
	at := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, loc) }

	an := seedGuest(t, db, "An", 1, at(1, 9))
	binh := seedGuest(t, db, "Binh", 2, at(1, 10))
	chi := seedGuest(t, db, "Chi", 3, at(2, 9))

	seedOrder(t, db, an, &pho.ID, 50000, 2, models.OrderStatusPaid, 1, at(1, 12))      // 100000 on day 1
	seedOrder(t, db, an, &banhMi.ID, 25000, 1, models.OrderStatusPaid, 1, at(2, 12))   // 25000 on day 2
	seedOrder(t, db, binh, &pho.ID, 50000, 1, models.OrderStatusPaid, 2, at(2, 13))    // 50000 on day 2
	seedOrder(t, db, binh, &pho.ID, 50000, 1, models.OrderStatusRejected, 2, at(2, 14))
	seedOrder(t, db, chi, &banhMi.ID, 25000, 3, models.OrderStatusPending, 3, at(2, 15))
	seedOrder(t, db, chi, &cafe.ID, 20000, 1, models.OrderStatusDelivered, 3, at(2, 16))

	// deleted dish: snapshot with no surviving catalog row
	seedOrder(t, db, an, nil, 40000, 1, models.OrderStatusPaid, 1, at(2, 17))

	rep, err := ComputeIndicators(db, loc, from, to)
	if err != nil {
		t.Fatalf("ComputeIndicators: %v", err)
	}

	const wantRevenue = 100000 + 25000 + 50000 + 40000
	if rep.Revenue != wantRevenue {
		t.Errorf("revenue = %d, want %d", rep.Revenue, wantRevenue)
	}

	var bucketSum int64
	for _, b := range rep.RevenueByDate {
		bucketSum += b.Revenue
	}
	if bucketSum != rep.Revenue {
		t.Errorf("sum of day buckets = %d, revenue = %d; must agree", bucketSum, rep.Revenue)
	}

	if rep.OrderCount != 7 {
		t.Errorf("order count = %d, want 7 (all statuses count)", rep.OrderCount)
	}
	// Chi's two open orders are both at table 3, Binh's rejected one
	// does not count
	if rep.ServingTableCount != 1 {
		t.Errorf("serving tables = %d, want 1", rep.ServingTableCount)
	}
	// Chi never paid anything
	if rep.GuestCount != 2 {
		t.Errorf("guest count = %d, want 2", rep.GuestCount)
	}

	if len(rep.DishIndicator) != 3 {
		t.Fatalf("got %d dish indicators, want full catalog of 3", len(rep.DishIndicator))
	}
	wantSuccess := map[string]int{"Pho": 3, "Banh mi": 1, "Ca phe": 0}
	for _, di := range rep.DishIndicator {
		if got := wantSuccess[di.Name]; di.SuccessOrders != got {
			t.Errorf("dish %s success orders = %d, want %d", di.Name, di.SuccessOrders, got)
		}
	}
}

func TestComputeIndicatorsTimezoneAttribution(t *testing.T) {
	db := newTestDB(t)
	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	pho := seedDish(t, db, "Pho", 30000)
	from, to := dayRange(loc, "2024-01-01", "2024-01-02")

	g := seedGuest(t, db, "An", 4, time.Date(2024, 1, 1, 10, 0, 0, 0, loc))

	// 18:00 UTC is already 01:00 the next day in UTC+7
	seedOrder(t, db, g, &pho.ID, 30000, 1, models.OrderStatusPaid, 4,
		time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))

	rep, err := ComputeIndicators(db, loc, from, to)
	if err != nil {
		t.Fatalf("ComputeIndicators: %v", err)
	}

	byDate := make(map[string]int64, len(rep.RevenueByDate))
	for _, b := range rep.RevenueByDate {
		byDate[b.Date] = b.Revenue
	}
	if byDate["01/01/2024"] != 0 {
		t.Errorf("01/01 revenue = %d, want 0", byDate["01/01/2024"])
	}
	if byDate["02/01/2024"] != 30000 {
		t.Errorf("02/01 revenue = %d, want 30000", byDate["02/01/2024"])
	}
}

func TestComputeIndicatorsBucketPerCalendarDay(t *testing.T) {
	db := newTestDB(t)
	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	// leap February, no orders at all
	from, to := dayRange(loc, "2024-02-27", "2024-03-02")

	rep, err := ComputeIndicators(db, loc, from, to)
	if err != nil {
		t.Fatalf("ComputeIndicators: %v", err)
	}

	want := []string{"27/02/2024", "28/02/2024", "29/02/2024", "01/03/2024", "02/03/2024"}
	if len(rep.RevenueByDate) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(rep.RevenueByDate), len(want))
	}
	for i, d := range want {
		if rep.RevenueByDate[i].Date != d {
			t.Errorf("bucket %d = %s, want %s", i, rep.RevenueByDate[i].Date, d)
		}
		if rep.RevenueByDate[i].Revenue != 0 {
			t.Errorf("bucket %s revenue = %d, want 0", d, rep.RevenueByDate[i].Revenue)
		}
	}
	if rep.Revenue != 0 || rep.OrderCount != 0 || rep.GuestCount != 0 {
		t.Errorf("empty window report not zeroed: %+v", rep)
	}
}

func TestComputeIndicatorsIgnoresOrdersOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	loc := mustLoc(t, "Asia/Ho_Chi_Minh")

	pho := seedDish(t, db, "Pho", 50000)
	from, to := dayRange(loc, "2024-01-10", "2024-01-10")

	inside := seedGuest(t, db, "An", 1, time.Date(2024, 1, 10, 9, 0, 0, 0, loc))
	before := seedGuest(t, db, "Binh", 2, time.Date(2024, 1, 9, 9, 0, 0, 0, loc))

	seedOrder(t, db, inside, &pho.ID, 50000, 1, models.OrderStatusPaid, 1,
		time.Date(2024, 1, 10, 12, 0, 0, 0, loc))
	seedOrder(t, db, before, &pho.ID, 50000, 5, models.OrderStatusPaid, 2,
		time.Date(2024, 1, 9, 12, 0, 0, 0, loc))
	seedOrder(t, db, inside, &pho.ID, 50000, 5, models.OrderStatusPaid, 1,
		time.Date(2024, 1, 11, 0, 0, 1, 0, loc))

	rep, err := ComputeIndicators(db, loc, from, to)
	if err != nil {
		t.Fatalf("ComputeIndicators: %v", err)
	}

	if rep.Revenue != 50000 {
		t.Errorf("revenue = %d, want 50000 (window is inclusive day only)", rep.Revenue)
	}
	if rep.OrderCount != 1 {
		t.Errorf("order count = %d, want 1", rep.OrderCount)
	}
	// Binh arrived before the window; paid history alone does not
	// count them as a guest of this window
	if rep.GuestCount != 1 {
		t.Errorf("guest count = %d, want 1", rep.GuestCount)
	}
}
