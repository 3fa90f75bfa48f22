package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc  service.UserService
	purgeSvc service.PurgeService
}

func NewUserHandler(userSvc service.UserService, purgeSvc service.PurgeService) *UserHandler {
	return &UserHandler{
		userSvc:  userSvc,
		purgeSvc: purgeSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&loginDTO); err != nil {
		response.Error(c, err)
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"token": token,
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.userSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) GetUserByID(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) SearchUser(c *gin.Context) {
	var searchDTO dto.SearchUserDTO
	err := c.ShouldBindQuery(&searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	users, err := s.userSvc.SearchUser(c.Request.Context(), searchDTO.Keyword, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var userDTO dto.UserDTO
	err := c.ShouldBind(&userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	userDTO.UserID = nil
	userDTO.AvatarURL = nil
	userDTO.CreatedAt = nil
	err = util.ValidateDTO(&userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdateUserInfo(c.Request.Context(), userID, &userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UpdateSettings(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var settingsDTO dto.UserSettingsDTO
	err := c.ShouldBind(&settingsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&settingsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdateSettings(c.Request.Context(), userID, &settingsDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CancelUser 注销当前账号。注销只能由本人发起，成功后在途凭证立即失效
func (s *UserHandler) CancelUser(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.purgeSvc.PurgeUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
