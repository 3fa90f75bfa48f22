package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/es"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/redis"
	"Murmur/internal/pkg/security"
	"Murmur/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	SearchUser(ctx context.Context, keyword string, from, size int) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdateSettings(ctx context.Context, id uint64, dto *dto.UserSettingsDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
}

type UserServiceImpl struct {
	userRepo   repository.UserRepo
	esUserRepo es.UserRepo
}

func NewUserService(userRepo repository.UserRepo, esUserRepo es.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo:   userRepo,
		esUserRepo: esUserRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	findUser, err := s.userRepo.GetUserByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username:             &regDTO.Username,
		Password:             &passwordHash,
		Nickname:             regDTO.Nickname,
		Avatar:               consts.DefaultAvatarURL,
		NotificationsEnabled: true,
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserServiceImpl) Login(ctx context.Context, credentialDTO *dto.CredentialDTO) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, credentialDTO.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if user.Password == nil {
		return "", ErrPasswordIncorrect
	}
	err = security.CheckPasswordHash(credentialDTO.Password, *user.Password)
	if err != nil {
		return "", ErrPasswordIncorrect
	}
	token, err := security.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	userDTO := &dto.UserDTO{}
	err = copier.Copy(userDTO, user)
	if err != nil {
		return nil, err
	}
	userDTO.UserID = &user.ID
	url := minio.GetPublicURL(user.Avatar)
	userDTO.AvatarURL = &url
	return userDTO, nil
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.UserDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var userDTO *dto.UserDTO
			err = json.Unmarshal([]byte(value), &userDTO)
			if err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = userDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}
	if len(newIds) > 0 {
		users, err := s.userRepo.GetUserByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			userDTO := &dto.UserDTO{}
			err = copier.Copy(userDTO, user)
			if err != nil {
				return nil, err
			}
			userDTO.UserID = &user.ID
			url := minio.GetPublicURL(user.Avatar)
			userDTO.AvatarURL = &url
			mp[user.ID] = userDTO
			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				return nil, err
			}
			err = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(user.ID, 10), string(jsonStr), time.Hour*1)
			if err != nil {
				return nil, err
			}
		}
	}
	userDTOList := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		userDTOList = append(userDTOList, mp[id])
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) SearchUser(ctx context.Context, keyword string, from, size int) ([]*dto.UserDTO, error) {
	hits, err := s.esUserRepo.SearchUsers(ctx, keyword, from, size)
	if err != nil {
		return nil, err
	}
	userDTOList := make([]*dto.UserDTO, 0, len(hits))
	for _, hit := range hits {
		url := minio.GetPublicURL(hit.Avatar)
		userDTOList = append(userDTOList, &dto.UserDTO{
			UserID:         &hit.ID,
			Nickname:       &hit.Nickname,
			AvatarURL:      &url,
			Bio:            hit.Bio,
			FollowerCount:  &hit.FollowerCount,
			FollowingCount: &hit.FollowingCount,
		})
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if userDTO.Nickname != nil {
		user.Nickname = *userDTO.Nickname
	}
	if userDTO.Bio != nil {
		user.Bio = userDTO.Bio
	}
	err = s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return err
	}
	return redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}

// UpdateSettings 修改通知开关与推送令牌。
// 关掉通知或清空令牌会让消息通知消费者直接跳过该用户
func (s *UserServiceImpl) UpdateSettings(ctx context.Context, id uint64, settingsDTO *dto.UserSettingsDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if settingsDTO.NotificationsEnabled != nil {
		user.NotificationsEnabled = *settingsDTO.NotificationsEnabled
	}
	if settingsDTO.PushToken != nil {
		if *settingsDTO.PushToken == "" {
			user.PushToken = nil
		} else {
			user.PushToken = settingsDTO.PushToken
		}
	}
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.Avatar = objectName
	err = s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return err
	}
	return redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
}
