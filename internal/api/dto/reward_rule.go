package dto

type RewardRuleDTO struct {
	FollowerThreshold int64 `json:"follower_threshold" validate:"required,min=1"`
	RewardAmount      int64 `json:"reward_amount" validate:"required,min=1"`
}
