package consts

const (
	MimePrefixImage = "image"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)

const (
	// DefaultFollowerThreshold 奖励规则缺省阈值
	DefaultFollowerThreshold = 5000
	// DefaultRewardAmount 奖励规则缺省金额（分）
	DefaultRewardAmount = 10000
)

const (
	// MessagePreviewRunes 推送正文里消息预览的最大长度
	MessagePreviewRunes = 50
	// MessagePreviewEllipsis 预览被截断时追加的省略标记
	MessagePreviewEllipsis = "..."
)

const (
	PushTypeMessage = "message"
	PushTypeFollow  = "follow"
	PushTypeReward  = "reward"
)
