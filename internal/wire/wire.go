package wire

import (
	"Murmur/internal/api"
	"Murmur/internal/api/config"
	"Murmur/internal/api/handler"
	"Murmur/internal/job"
	"Murmur/internal/pkg/cron"
	"Murmur/internal/pkg/es"
	"Murmur/internal/pkg/kafka"
	mongorepo "Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/push"
	"Murmur/internal/repository"
	"Murmur/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	convRepo := repository.NewConversationRepo(db)
	postRepo := repository.NewPostRepo(db)
	transactionRepo := repository.NewTransactionRepo(db)
	rewardRuleRepo := repository.NewRewardRuleRepo(db)
	purgeRepo := repository.NewPurgeRepo(db)

	messageRepo := mongorepo.NewMessageRepo(mongoDB)
	sysBoxRepo := mongorepo.NewSysBoxRepo(mongoDB)
	userESRepo := es.NewUserRepo()
	pushClient := push.NewClient(cfg.Push)

	notifyService := service.NewNotifyService(userRepo, convRepo, sysBoxRepo, pushClient)
	userService := service.NewUserService(userRepo, userESRepo)
	userFollowService := service.NewUserFollowService(userRepo, userFollowRepo, notifyService)
	rewardService := service.NewRewardService(userRepo, rewardRuleRepo, sysBoxRepo, pushClient)
	imService := service.NewIMService(convRepo, userRepo, messageRepo)
	walletService := service.NewWalletService(userRepo, transactionRepo)
	sysBoxService := service.NewSysBoxService(sysBoxRepo)
	postService := service.NewPostService(postRepo)
	purgeService := service.NewPurgeService(purgeRepo, messageRepo, sysBoxRepo)

	handlers := &api.HandlersGroup{
		UserHandler:       handler.NewUserHandler(userService, purgeService),
		UserFollowHandler: handler.NewUserFollowsHandler(userFollowService, userService),
		PostHandler:       handler.NewPostHandler(postService),
		IMHandler:         handler.NewIMHandler(imService),
		WSHandler:         handler.NewWsHandler(),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxService),
		WalletHandler:     handler.NewWalletHandler(walletService),
		MediaHandler:      handler.NewMediaHandler(userService),
		RewardRuleHandler: handler.NewRewardRuleHandler(rewardService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, userFollowService, rewardService, notifyService, userESRepo)
	if err != nil {
		return nil, err
	}

	followAuditJob := job.NewFollowAuditJob(userFollowService)
	cronMgr := cron.NewCronManager(followAuditJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
