package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type IMHandler struct {
	imService service.IMService
}

func NewIMHandler(im service.IMService) *IMHandler {
	return &IMHandler{imService: im}
}

func (s *IMHandler) SendMessage(c *gin.Context) {
	senderID := c.GetUint64("user_id")
	var req dto.SendMessageReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	msg, err := s.imService.SendMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, msg)
}

func (s *IMHandler) GetChatHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	convID, _ := strconv.ParseUint(c.Query("conversation_id"), 10, 64)
	lastSeq, _ := strconv.ParseUint(c.Query("last_seq"), 10, 64)
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if convID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	messages, err := s.imService.GetChatHistory(c.Request.Context(), userID, convID, lastSeq, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, messages)
}

func (s *IMHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.imService.GetConversationList(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *IMHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.MarkAsReadReq
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	err := s.imService.MarkAsRead(c.Request.Context(), userID, req.ConversationID, req.Sequence)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
