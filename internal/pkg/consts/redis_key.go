package consts

const (
	UserSimpleInfoKey     = "user:simple:info:"
	UserFollowerCountKey  = "user:follower:count:"
	UserFollowingCountKey = "user:following:count:"
	UserFollowDirtyKey    = "user:follow:dirty"
	UserRevokedKey        = "user:revoked:"
	IMConversationKey     = "im:conversation:"
	IMUserKey             = "im:user:"
)
