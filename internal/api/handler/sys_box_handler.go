package handler

import (
	"Murmur/internal/pkg/response"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SysBoxHandler struct {
	sysBoxSvc service.SysBoxService
}

func NewSysBoxHandler(sysBoxSvc service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{sysBoxSvc: sysBoxSvc}
}

func (s *SysBoxHandler) GetNotificationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}

	list, err := s.sysBoxSvc.GetNotificationList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")
	count, err := s.sysBoxSvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, count)
}

func (s *SysBoxHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	msgID := c.Param("msg_id")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err := s.sysBoxSvc.MarkRead(c.Request.Context(), userID, msgID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *SysBoxHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.sysBoxSvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
