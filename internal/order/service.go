package order

import (
	"errors"

	"quanan-backend/internal/apperrors"
	"quanan-backend/internal/models"

	"gorm.io/gorm"
)

type UpdateParams struct {
	Status   models.OrderStatus
	DishID   *uint
	Quantity *int
	// staff member taking responsibility for the order
	HandlerID uint
}

// Update lets staff move an order through its lifecycle and claim it.
// Swapping the dish never touches the old snapshot; it mints a new one
// from the dish's current state, same as order placement does.
func Update(db *gorm.DB, orderID uint, params UpdateParams) (*models.Order, error) {
	switch params.Status {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusRejected,
		models.OrderStatusDelivered, models.OrderStatusPaid:
	default:
		return nil, apperrors.InvalidState("unknown order status %q", params.Status)
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

	var ord models.Order
	if err := tx.Preload("DishSnapshot").First(&ord, orderID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, err
	}

	if params.DishID != nil && (ord.DishSnapshot.DishID == nil || *ord.DishSnapshot.DishID != *params.DishID) {
		var dish models.Dish
		if err := tx.First(&dish, *params.DishID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("dish", *params.DishID)
			}
			return nil, err
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
		ord.DishSnapshotID = snapshot.ID
		ord.DishSnapshot = snapshot
	}

	if params.Quantity != nil {
		if *params.Quantity <= 0 {
			tx.Rollback()
			return nil, apperrors.InvalidState("quantity must be positive")
		}
		ord.Quantity = *params.Quantity
	}

	ord.Status = params.Status
	ord.OrderHandlerID = &params.HandlerID

	if err := tx.Save(&ord).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.TxAbort(err)
	}

	if err := db.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").First(&ord, ord.ID).Error; err != nil {
		return nil, err
	}
	return &ord, nil
}

// PayGuestOrders settles a guest's bill: every unsettled order of the
// guest flips to Paid in one transaction. Rejected orders stay as they
// are and are never charged.
func PayGuestOrders(db *gorm.DB, guestID uint, handlerID uint) ([]models.Order, error) {
	unsettled := []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusDelivered,
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

	var orders []models.Order
	if err := tx.Where("guest_id = ? AND status IN ?", guestID, unsettled).Find(&orders).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(orders) == 0 {
		tx.Rollback()
		return nil, apperrors.InvalidState("guest %d has no unpaid orders", guestID)
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	err := tx.Model(&models.Order{}).Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":           models.OrderStatusPaid,
			"order_handler_id": handlerID,
		}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.TxAbort(err)
	}

	var paid []models.Order
	err = db.Preload("DishSnapshot").Preload("Guest").Preload("OrderHandler").
		Where("id IN ?", ids).Order("created_at ASC").Find(&paid).Error
	if err != nil {
		return nil, err
	}
	return paid, nil
}
