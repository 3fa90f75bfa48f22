package handler

import (
	"Murmur/internal/pkg/consts"
	"Murmur/internal/pkg/minio"
	"Murmur/internal/pkg/response"
	"Murmur/internal/pkg/util"
	"Murmur/internal/service"
	"fmt"
	log "log/slog"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct {
	userSvc service.UserService
}

func NewMediaHandler(userSvc service.UserService) *MediaHandler {
	return &MediaHandler{userSvc: userSvc}
}

// UploadAvatar 头像上传。对象统一放在 users/<id>/ 前缀下，
// 注销时按前缀一把清掉
func (s *MediaHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := fmt.Sprintf("users/%d/avatar/%s%s", userID, uuid.NewString(), ext)

	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	if err = s.userSvc.UpdateAvatar(c.Request.Context(), userID, fileKey); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]string{
		"object_name": fileKey,
		"url":         minio.GetPublicURL(fileKey),
	})
}
