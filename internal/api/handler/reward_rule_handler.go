package handler

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"

	"github.com/gin-gonic/gin"
)

type RewardRuleHandler struct {
	rewardSvc service.RewardService
}

func NewRewardRuleHandler(rewardSvc service.RewardService) *RewardRuleHandler {
	return &RewardRuleHandler{rewardSvc: rewardSvc}
}

func (s *RewardRuleHandler) GetRule(c *gin.Context) {
	rule, err := s.rewardSvc.GetRewardRule(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rule)
}

func (s *RewardRuleHandler) UpdateRule(c *gin.Context) {
	var ruleDTO dto.RewardRuleDTO
	if err := c.ShouldBind(&ruleDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&ruleDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.rewardSvc.UpdateRewardRule(c.Request.Context(), &ruleDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
