package controllers

import (
	"net/http"
	"strconv"
	"time"

	"resto-api/dtos"
	"resto-api/logger"
	"resto-api/notify"
	"resto-api/promotions"
	"resto-api/services"
	"resto-api/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders     services.OrderService
	settlement services.SettlementService
	dispatcher notify.Dispatcher
	log        *logger.Logger
}

func NewOrderController(orders services.OrderService, settlement services.SettlementService, dispatcher notify.Dispatcher, log *logger.Logger) *OrderController {
	return &OrderController{orders: orders, settlement: settlement, dispatcher: dispatcher, log: log}
}

// POST /orders
func (ctl *OrderController) CreateOrders(c *gin.Context) {
	var input dtos.CreateOrdersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctl.orders.CreateOrders(c.Request.Context(), c.GetUint("user_id"), input)
	if err != nil {
		respondError(c, ctl.log, "create_orders_failed", err)
		return
	}

	ctl.notify(c, notify.EventOrdersCreated, result.Channel, result.Orders)
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Orders created",
		"data":      result.Orders,
		"socket_id": result.Channel,
	})
}

// GET /orders?fromDate=&toDate=&guestId=
func (ctl *OrderController) GetOrders(c *gin.Context) {
	from, err := utils.ParseRangeStart(c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: err.Error(), Code: "ValidationFailed"})
		return
	}
	to, err := utils.ParseRangeEnd(c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: err.Error(), Code: "ValidationFailed"})
		return
	}

	filter := services.OrderFilter{From: from, To: to}
	if s := c.Query("guestId"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "Invalid guestId", Code: "ValidationFailed"})
			return
		}
		guestID := uint(id)
		filter.GuestID = &guestID
	}

	orders, err := ctl.orders.GetOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, ctl.log, "list_orders_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GET /orders/:id
func (ctl *OrderController) GetOrderDetail(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	detail, err := ctl.orders.GetOrderDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctl.log, "get_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// PATCH /orders/:id
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var input dtos.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctl.orders.UpdateOrder(c.Request.Context(), id, input, c.GetUint("user_id"))
	if err != nil {
		respondError(c, ctl.log, "update_order_failed", err)
		return
	}

	ctl.notify(c, notify.EventOrderUpdated, result.Channel, result.Order)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Order updated",
		"data":      result.Order,
		"socket_id": result.Channel,
	})
}

// PATCH /orders/pay
func (ctl *OrderController) PayOrders(c *gin.Context) {
	var input dtos.PayOrdersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	paid, settlement, err := ctl.settlement.Settle(c.Request.Context(), input.GuestID, c.GetUint("user_id"), settleInput(input))
	if paid != nil {
		ctl.notify(c, notify.EventOrdersPaid, paid.Channel, paid.Orders)
	}
	if err != nil {
		respondError(c, ctl.log, "pay_orders_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Orders paid",
		"data":       paid.Orders,
		"settlement": settlement,
		"socket_id":  paid.Channel,
	})
}

// POST /orders/pay/preview
func (ctl *OrderController) PreviewPayment(c *gin.Context) {
	var input dtos.PayOrdersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	settlement, err := ctl.settlement.Preview(c.Request.Context(), input.GuestID, settleInput(input))
	if err != nil {
		respondError(c, ctl.log, "preview_payment_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settlement})
}

func (ctl *OrderController) notify(c *gin.Context, eventType string, channel *string, payload interface{}) {
	if channel == nil {
		return
	}
	ctl.dispatcher.Dispatch(c.Request.Context(), notify.Event{
		Type:      eventType,
		Channel:   *channel,
		RequestID: c.GetString("request_id"),
		SentAt:    time.Now().UTC(),
		Payload:   payload,
	})
}

func settleInput(in dtos.PayOrdersInput) services.SettleInput {
	return services.SettleInput{
		PromotionIDs:  in.PromotionIDs,
		AllowStacking: in.AllowStacking,
		OrderType:     promotions.OrderType(in.OrderType),
		ShippingFee:   in.ShippingFee,
	}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "Invalid order id", Code: "ValidationFailed"})
		return 0, false
	}
	return uint(id), true
}
