package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/mongo"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/util"
	"Murmur/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// IMService 即时通讯服务接口定义
type IMService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetChatHistory(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error)
	GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error)
	MarkAsRead(ctx context.Context, userID uint64, convID uint64, seq uint64) error
	Close()
}

type imServiceImpl struct {
	convRepo    repository.ConversationRepo
	userRepo    repository.UserRepo
	messageRepo mongo.MessageRepo
	retryChan   chan *mongo.Message
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

// NewIMService 构造函数：初始化服务并启动消息补偿工作池
func NewIMService(convRepo repository.ConversationRepo, userRepo repository.UserRepo, messageRepo mongo.MessageRepo) IMService {
	s := &imServiceImpl{
		convRepo:    convRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		retryChan:   make(chan *mongo.Message, 2048),
		stopChan:    make(chan struct{}),
	}

	workerCount := 5
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.retryWorker()
	}

	return s
}

// SendMessage 发送消息。先在 MySQL 里原子定序，会话行的这次更新
// 同时也是下游推送消费者的触发事件；消息体随后落 MongoDB
func (s *imServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	var convID = req.ConversationID
	var targetID = req.TargetUserID

	if convID == 0 {
		if targetID == 0 || targetID == senderID {
			return nil, ErrTargetUserInvalid
		}
		target, err := s.userRepo.GetUserById(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, ErrTargetUserInvalid
		}
		conv, err := s.convRepo.GetOrCreateConversation(ctx, senderID, targetID)
		if err != nil {
			return nil, err
		}
		convID = conv.ID
	} else {
		conv, err := s.convRepo.GetConversationById(ctx, convID)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, ErrConversation
		}
		isMember, err := s.convRepo.IsMember(ctx, convID, senderID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			return nil, UnauthorizedError
		}
		targetID, _ = parsePeerID(conv.PeerKey, senderID)
	}

	preview := util.TruncateRunes(req.Content, consts.MessagePreviewRunes, consts.MessagePreviewEllipsis)
	newSeq, err := s.convRepo.IncrMaxSeq(ctx, convID, senderID, preview)
	if err != nil {
		return nil, err
	}

	msgModel := &mongo.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Text:           req.Content,
		Seq:            newSeq,
		CreatedAt:      time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.messageRepo.SaveMessage(writeCtx, msgModel); err != nil {
		select {
		case s.retryChan <- msgModel:
		default:
			log.Error("message retry queue full, message body dropped", "conv_id", convID, "seq", newSeq)
		}
	}

	// 在线端走 Redis 频道实时下发，离线端由推送消费者兜底
	_ = s.publishMessageToRedis(context.Background(), msgModel, targetID)

	return s.toMessageDTO(msgModel), nil
}

// GetChatHistory 拉取历史消息，按序号倒序分页
func (s *imServiceImpl) GetChatHistory(ctx context.Context, userID uint64, convID uint64, lastSeq uint64, pageSize int) ([]*dto.MessageDTO, error) {
	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil || !isMember {
		return nil, UnauthorizedError
	}

	models, err := s.messageRepo.GetHistory(ctx, convID, lastSeq, pageSize)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

// GetConversationList 获取会话列表
func (s *imServiceImpl) GetConversationList(ctx context.Context, userID uint64) ([]*dto.ConversationDTO, error) {
	members, err := s.convRepo.GetUserConversationList(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(members))
	for _, m := range members {
		d := &dto.ConversationDTO{
			ConversationID: m.ConversationID,
			LastMsgContent: m.Conversation.LastMsgContent,
			LastSenderID:   m.Conversation.LastSenderID,
			LastMessageAt:  m.Conversation.LastMessageAt,
		}
		if m.Conversation.MaxMsgSeq > m.ReadMsgSeq {
			d.UnreadCount = m.Conversation.MaxMsgSeq - m.ReadMsgSeq
		}
		peerID, _ := parsePeerID(m.Conversation.PeerKey, userID)
		d.PeerID = peerID
		res = append(res, d)
	}
	return res, nil
}

// MarkAsRead 标记已读
func (s *imServiceImpl) MarkAsRead(ctx context.Context, userID uint64, convID uint64, seq uint64) error {
	isMember, err := s.convRepo.IsMember(ctx, convID, userID)
	if err != nil || !isMember {
		return UnauthorizedError
	}

	conv, err := s.convRepo.GetConversationById(ctx, convID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversation
	}

	targetSeq := seq
	if targetSeq > conv.MaxMsgSeq {
		targetSeq = conv.MaxMsgSeq
	}

	return s.convRepo.UpdateReadSeq(ctx, convID, userID, targetSeq)
}

// publishMessageToRedis 发布消息到接收者的用户频道
func (s *imServiceImpl) publishMessageToRedis(ctx context.Context, msg *mongo.Message, targetUserID uint64) error {
	if targetUserID == 0 {
		return nil
	}
	data, err := json.Marshal(s.toMessageDTO(msg))
	if err != nil {
		return err
	}
	channel := consts.IMUserKey + strconv.FormatUint(targetUserID, 10)
	return redis.Publish(ctx, channel, data)
}

func (s *imServiceImpl) toMessageDTO(msg *mongo.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Text,
		Seq:            msg.Seq,
		CreatedAt:      msg.CreatedAt,
	}
}

func (s *imServiceImpl) Close() {
	close(s.stopChan)
	s.wg.Wait()
	log.Info("IMService shut down gracefully")
}

// retryWorker 消息体首写失败后的补偿，最多退避重试三次
func (s *imServiceImpl) retryWorker() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.retryChan:
			backoff := time.Second
			for i := 0; i < 3; i++ {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				err := s.messageRepo.SaveMessage(ctx, msg)
				cancel()
				if err == nil {
					break
				}
				time.Sleep(backoff)
				backoff *= 2
			}
		case <-s.stopChan:
			return
		}
	}
}

// parsePeerID 从 PeerKey 里解析出对手方 ID
func parsePeerID(peerKey string, selfID uint64) (uint64, error) {
	parts := strings.SplitN(peerKey, ":", 2)
	if len(parts) != 2 {
		return 0, ErrConversation
	}
	a, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	b, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, err
	}
	if a == selfID {
		return b, nil
	}
	return a, nil
}
