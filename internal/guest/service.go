package guest

import (
	"errors"

	"quanan-backend/internal/apperrors"
	"quanan-backend/internal/models"

	"gorm.io/gorm"
)

// LineItem is one (dish, quantity) pair of a guest submission.
type LineItem struct {
	DishID   uint `json:"dish_id"`
	Quantity int  `json:"quantity"`
}

// PlaceOrders turns a guest submission into committed orders, one per
// line item, all-or-nothing. Guest, table and dish state are read
// inside the same transaction that writes the snapshots and orders, so
// a concurrent menu edit can never produce a mixed-price snapshot.
//
// Every order is created Pending with no handler; the snapshot copies
// the dish as it stands right now. Result order matches input order.
func PlaceOrders(db *gorm.DB, guestID uint, items []LineItem) ([]models.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.InvalidState("order must contain at least one dish")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.InvalidState("quantity for dish %d must be positive", item.DishID)
		}
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.TxAbort(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var guest models.Guest
	if err := tx.First(&guest, guestID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("guest", guestID)
		}
		return nil, err
	}
	if guest.TableNumber == nil {
		tx.Rollback()
		return nil, apperrors.InvalidState("your table has been deleted, please log in again at another table")
	}

	var table models.Table
	if err := tx.First(&table, "number = ?", *guest.TableNumber).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("table", *guest.TableNumber)
		}
		return nil, err
	}
	switch table.Status {
	case models.TableStatusHidden:
		tx.Rollback()
		return nil, apperrors.InvalidState("table %d is hidden, please log out and choose another table", table.Number)
	case models.TableStatusReserved:
		tx.Rollback()
		return nil, apperrors.InvalidState("table %d is reserved, please log out and choose another table", table.Number)
	}

	// One set-based read instead of a query per line item: a SQL
	// transaction is bound to a single connection, so fanning the dish
	// lookups out onto goroutines buys nothing here.
	dishes, err := loadDishes(tx, items)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		dish := dishes[item.DishID]
		switch dish.Status {
		case models.DishStatusUnavailable:
			tx.Rollback()
			return nil, apperrors.InvalidState("dish %s is out of stock", dish.Name)
		case models.DishStatusHidden:
			tx.Rollback()
			return nil, apperrors.InvalidState("dish %s cannot be ordered", dish.Name)
		}

		snapshot := models.DishSnapshot{
			Name:        dish.Name,
			Price:       dish.Price,
			Description: dish.Description,
			Image:       dish.Image,
			Status:      dish.Status,
			DishID:      &dish.ID,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		order := models.Order{
			GuestID:        &guest.ID,
			TableNumber:    guest.TableNumber,
			DishSnapshotID: snapshot.ID,
			Quantity:       item.Quantity,
			Status:         models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		order.DishSnapshot = snapshot
		order.Guest = &guest
		orders = append(orders, order)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.TxAbort(err)
	}
	return orders, nil
}

// loadDishes resolves every requested dish inside the transaction and
// fails on the first id that does not exist.
func loadDishes(tx *gorm.DB, items []LineItem) (map[uint]models.Dish, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.DishID)
	}

	var dishes []models.Dish
	if err := tx.Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}
	for _, item := range items {
		if _, ok := byID[item.DishID]; !ok {
			return nil, apperrors.NotFound("dish", item.DishID)
		}
	}
	return byID, nil
}

// ListOrders returns every order the guest has placed this session,
// newest first, with snapshot and handler attached.
func ListOrders(db *gorm.DB, guestID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.
		Preload("DishSnapshot").
		Preload("OrderHandler").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
