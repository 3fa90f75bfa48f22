package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrUserFollowExist         = errors.New("用户已关注")
	ErrUserFollowSelf          = errors.New("用户不能关注自己")
	ErrUserFollowNotFound      = errors.New("尚未关注该用户")
	ErrPostNotFound            = errors.New("帖子不存在")
	ErrPostCommentNotFound     = errors.New("评论不存在")
	ErrSysBoxNotFound          = errors.New("系统通知不存在")
	ErrTargetUserInvalid       = errors.New("目标用户无效")
	ErrConversation            = errors.New("会话异常")
	ErrRewardRuleInvalid       = errors.New("奖励规则参数非法")
	ErrPurgeIncomplete         = errors.New("注销未完成，请稍后重试")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrUserFollowExist:         BadRequest,
	ErrUserFollowSelf:          BadRequest,
	ErrUserFollowNotFound:      BadRequest,
	ErrPostNotFound:            NotFound,
	ErrPostCommentNotFound:     NotFound,
	ErrSysBoxNotFound:          NotFound,
	ErrTargetUserInvalid:       BadRequest,
	ErrConversation:            BadRequest,
	ErrRewardRuleInvalid:       BadRequest,
	ErrPurgeIncomplete:         InternalServerError,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
