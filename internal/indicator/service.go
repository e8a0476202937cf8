package indicator

import (
	"sort"
	"time"

	"quanan-backend/internal/models"

	"gorm.io/gorm"
)

// Day buckets are keyed the way the dashboard displays them.
const dateKeyLayout = "02/01/2006"

type DishIndicator struct {
	models.Dish
	SuccessOrders int `json:"success_orders"`
}

type RevenueByDate struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type Report struct {
	Revenue           int64           `json:"revenue"`
	GuestCount        int64           `json:"guest_count"`
	OrderCount        int             `json:"order_count"`
	ServingTableCount int             `json:"serving_table_count"`
	DishIndicator     []DishIndicator `json:"dish_indicator"`
	RevenueByDate     []RevenueByDate `json:"revenue_by_date"`
}

// ComputeIndicators derives the dashboard report for [from, to]
// (inclusive) from raw order history. It is a pure read: three loads,
// one pass, nothing cached between calls.
//
// Revenue counts Paid orders only and always uses the snapshot price,
// so later menu edits never rewrite history. Day buckets are cut on
// midnights of loc; every calendar day in range gets a bucket even at
// zero revenue, and an order that rounds to a day outside the seeded
// range (time-zone edge) still lands in a bucket of its own.
func ComputeIndicators(db *gorm.DB, loc *time.Location, from, to time.Time) (*Report, error) {
	var orders []models.Order
	err := db.
		Preload("DishSnapshot").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	// guests who showed up in the window and actually settled a bill
	var guestCount int64
	err = db.Model(&models.Guest{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("EXISTS (SELECT 1 FROM orders WHERE orders.guest_id = guests.id AND orders.status = ?)", models.OrderStatusPaid).
		Count(&guestCount).Error
	if err != nil {
		return nil, err
	}

	// full catalog, so dishes with zero activity still show up
	var dishes []models.Dish
	if err := db.Order("id ASC").Find(&dishes).Error; err != nil {
		return nil, err
	}

	dishIndicators := make([]DishIndicator, len(dishes))
	dishIdx := make(map[uint]*DishIndicator, len(dishes))
	for i, d := range dishes {
		dishIndicators[i] = DishIndicator{Dish: d}
		dishIdx[d.ID] = &dishIndicators[i]
	}

	type bucket struct {
		day     time.Time
		revenue int64
	}
	buckets := make(map[string]*bucket)
	for day := startOfDay(from, loc); !day.After(to); day = day.AddDate(0, 0, 1) {
		buckets[day.Format(dateKeyLayout)] = &bucket{day: day}
	}

	var revenue int64
	servingTables := make(map[int]struct{})

	for _, order := range orders {
		switch order.Status {
		case models.OrderStatusPaid:
			line := order.DishSnapshot.Price * int64(order.Quantity)
			revenue += line

			if order.DishSnapshot.DishID != nil {
				// snapshots of since-deleted dishes keep their revenue
				// but have no catalog row to count against
				if di, ok := dishIdx[*order.DishSnapshot.DishID]; ok {
					di.SuccessOrders++
				}
			}

			day := startOfDay(order.CreatedAt, loc)
			key := day.Format(dateKeyLayout)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{day: day}
				buckets[key] = b
			}
			b.revenue += line

		case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusDelivered:
			if order.TableNumber != nil {
				servingTables[*order.TableNumber] = struct{}{}
			}
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].day.Before(ordered[j].day)
	})

	revenueByDate := make([]RevenueByDate, 0, len(ordered))
	for _, b := range ordered {
		revenueByDate = append(revenueByDate, RevenueByDate{
			Date:    b.day.Format(dateKeyLayout),
			Revenue: b.revenue,
		})
	}

	return &Report{
		Revenue:           revenue,
		GuestCount:        guestCount,
		OrderCount:        len(orders),
		ServingTableCount: len(servingTables),
		DishIndicator:     dishIndicators,
		RevenueByDate:     revenueByDate,
	}, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
