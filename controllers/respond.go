package controllers

import (
	"errors"
	"net/http"

	"resto-api/dtos"
	"resto-api/logger"
	"resto-api/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorKind struct {
	err    error
	code   string
	status int
}

var errorKinds = []errorKind{
	{services.ErrGuestNotFound, "GuestNotFound", http.StatusBadRequest},
	{services.ErrTableNotFound, "TableNotFound", http.StatusBadRequest},
	{services.ErrTableHidden, "TableHidden", http.StatusBadRequest},
	{services.ErrTableNotAssigned, "TableNotAssigned", http.StatusBadRequest},
	{services.ErrDishNotFound, "DishNotFound", http.StatusBadRequest},
	{services.ErrDishUnavailable, "DishUnavailable", http.StatusBadRequest},
	{services.ErrDishHidden, "DishHidden", http.StatusBadRequest},
	{services.ErrOrderNotFound, "OrderNotFound", http.StatusNotFound},
	{services.ErrOrderFinalized, "OrderFinalized", http.StatusBadRequest},
	{services.ErrInvalidStatus, "InvalidStatus", http.StatusBadRequest},
	{services.ErrBackwardStatus, "InvalidTransition", http.StatusBadRequest},
	{services.ErrOrderConflict, "OrderConflict", http.StatusConflict},
	{services.ErrEmptyOrder, "EmptyOrder", http.StatusBadRequest},
	{services.ErrInvalidQty, "InvalidQuantity", http.StatusBadRequest},
	{services.ErrNoOrdersToPay, "NoOrdersToPay", http.StatusBadRequest},
	{services.ErrRevenueNotRecorded, "RevenueNotRecorded", http.StatusInternalServerError},
}

func classify(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.code, k.status
		}
	}
	return "", http.StatusInternalServerError
}

func respondError(c *gin.Context, log *logger.Logger, action string, err error) {
	code, status := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(action, c.GetString("request_id"), "Request failed", err)
	}
	if code == "" {
		c.JSON(status, dtos.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.JSON(status, dtos.ErrorResponse{Error: err.Error(), Code: code})
}

func respondBindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "Invalid request body", Code: "ValidationFailed", Fields: fields})
		return
	}
	c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: err.Error(), Code: "ValidationFailed"})
}
