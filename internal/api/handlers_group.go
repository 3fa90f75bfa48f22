package api

import "Murmur/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler       *handler.UserHandler
	UserFollowHandler *handler.UserFollowsHandler
	PostHandler       *handler.PostHandler
	IMHandler         *handler.IMHandler
	WSHandler         *handler.WsHandler
	SysBoxHandler     *handler.SysBoxHandler
	WalletHandler     *handler.WalletHandler
	MediaHandler      *handler.MediaHandler
	RewardRuleHandler *handler.RewardRuleHandler
}
