package dto

type FollowReq struct {
	TargetUserID uint64 `json:"target_user_id" validate:"required"`
}

type FollowCountDTO struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

type FollowListDTO struct {
	Users      []*UserDTO `json:"users"`
	NextCursor uint64     `json:"next_cursor"`
}
