package handler

import (
	"Murmur/internal/pkg/response"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletSvc service.WalletService
}

func NewWalletHandler(walletSvc service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

func (s *WalletHandler) GetWallet(c *gin.Context) {
	userID := c.GetUint64("user_id")
	wallet, err := s.walletSvc.GetWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, wallet)
}

func (s *WalletHandler) GetTransactions(c *gin.Context) {
	userID := c.GetUint64("user_id")
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	transactions, err := s.walletSvc.GetTransactions(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, transactions)
}
