package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowsHandler struct {
	userFollowSvc service.UserFollowService
	userSvc       service.UserService
}

func NewUserFollowsHandler(userFollowSvc service.UserFollowService, userSvc service.UserService) *UserFollowsHandler {
	return &UserFollowsHandler{
		userFollowSvc: userFollowSvc,
		userSvc:       userSvc,
	}
}

func (s *UserFollowsHandler) Follow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req dto.FollowReq
	err := c.ShouldBind(&req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userFollowSvc.CreateUserFollow(c.Request.Context(), userID, req.TargetUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowsHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userFollowSvc.DeleteUserFollow(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowsHandler) GetFollowCounts(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	counts, err := s.userFollowSvc.GetUserFollowCounts(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, counts)
}

func (s *UserFollowsHandler) IsFollowing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	following, err := s.userFollowSvc.GetSomeoneIsFollowing(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"following": following})
}

func (s *UserFollowsHandler) GetFollowers(c *gin.Context) {
	s.getFollowList(c, s.userFollowSvc.GetFollowerIDList)
}

func (s *UserFollowsHandler) GetFollowing(c *gin.Context) {
	s.getFollowList(c, s.userFollowSvc.GetFollowingIDList)
}

func (s *UserFollowsHandler) getFollowList(
	c *gin.Context,
	fetch func(ctx context.Context, userID uint64, cursor uint64, limit int) ([]uint64, error),
) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ids, err := fetch(c.Request.Context(), targetID, cursor, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	users, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	var nextCursor uint64
	if len(ids) > 0 {
		nextCursor = ids[len(ids)-1]
	}
	response.Success(c, &dto.FollowListDTO{
		Users:      users,
		NextCursor: nextCursor,
	})
}
