package utils

import (
	"encoding/json"

	"resto-api/models"

	"gorm.io/gorm"
)

func CreateOrderAuditLog(
	db *gorm.DB,
	action string,
	entityID uint,
	oldOrder, newOrder *models.Order,
	userID *uint,
	description string,
) error {
	auditLog := models.AuditLog{
		EntityType:  "order",
		EntityID:    entityID,
		Action:      action,
		UserID:      userID,
		OldValue:    toJSONString(oldOrder),
		NewValue:    toJSONString(newOrder),
		Changes:     calculateOrderChanges(action, oldOrder, newOrder),
		Description: description,
	}

	return db.Create(&auditLog).Error
}

func calculateOrderChanges(action string, oldOrder, newOrder *models.Order) *string {
	if action != "update" || oldOrder == nil || newOrder == nil {
		return nil
	}

	changes := make(map[string]interface{})

	if oldOrder.Status != newOrder.Status {
		changes["status"] = map[string]models.OrderStatus{
			"old": oldOrder.Status,
			"new": newOrder.Status,
		}
	}

	if oldOrder.Quantity != newOrder.Quantity {
		changes["quantity"] = map[string]int{
			"old": oldOrder.Quantity,
			"new": newOrder.Quantity,
		}
	}

	if oldOrder.DishSnapshotID != newOrder.DishSnapshotID {
		changes["dish_snapshot_id"] = map[string]uint{
			"old": oldOrder.DishSnapshotID,
			"new": newOrder.DishSnapshotID,
		}
	}

	if getUintValue(oldOrder.OrderHandlerID) != getUintValue(newOrder.OrderHandlerID) {
		changes["order_handler_id"] = map[string]uint{
			"old": getUintValue(oldOrder.OrderHandlerID),
			"new": getUintValue(newOrder.OrderHandlerID),
		}
	}

	if len(changes) == 0 {
		return nil
	}

	return toJSONString(changes)
}

func toJSONString(v interface{}) *string {
	if v == nil {
		return nil
	}
	if o, ok := v.(*models.Order); ok && o == nil {
		return nil
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	str := string(bytes)
	return &str
}

func getUintValue(ptr *uint) uint {
	if ptr != nil {
		return *ptr
	}
	return 0
}
