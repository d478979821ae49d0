package dtos

import "resto-api/models"

type OrderLineInput struct {
	DishID   uint `json:"dish_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrdersInput struct {
	GuestID uint             `json:"guest_id" binding:"required"`
	Orders  []OrderLineInput `json:"orders" binding:"required,min=1,dive"`
}

type UpdateOrderInput struct {
	Status   models.OrderStatus `json:"status" binding:"required,oneof=Pending Processing Delivered Cancelled"`
	DishID   uint               `json:"dish_id" binding:"required"`
	Quantity int                `json:"quantity" binding:"required,min=1"`
}

type PayOrdersInput struct {
	GuestID       uint   `json:"guest_id" binding:"required"`
	PromotionIDs  []uint `json:"promotion_ids,omitempty"`
	AllowStacking bool   `json:"allow_stacking"`
	OrderType     string `json:"order_type,omitempty" binding:"omitempty,oneof=dine_in takeaway delivery"`
	ShippingFee   int64  `json:"shipping_fee" binding:"min=0"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}
