package initializers

import (
	"context"

	"approval-flow-backend/config"
	"approval-flow-backend/fiberlog"
	attachmenthandler "approval-flow-backend/lib/attachment"
	authhandler "approval-flow-backend/lib/auth"
	notificationhandler "approval-flow-backend/lib/notification"
	requesthandler "approval-flow-backend/lib/request"
	usershandler "approval-flow-backend/lib/users"
	authutils "approval-flow-backend/lib/utils/auth-utils"
	workflowhandler "approval-flow-backend/lib/workflow"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context, cfg *config.Configuration) {
	LoggerConfig = InitLogger()
	InitDBConnection(cfg)
	InitS3(ctx, cfg)
	InitSmtp(cfg)

	tokenProvider := authutils.NewTokenProvider(cfg.Auth.JWTSecret,
		cfg.Auth.JWTExpireInSec, cfg.Auth.JWTRefreshExpireInSec)
	authhandler.NewHandler(tokenProvider)
	usershandler.NewHandler()
	requesthandler.NewHandler()
	notificationhandler.NewHandler()
	// обработчики согласования и вложений зависят от уведомлений и хранилища
	workflowhandler.NewHandler()
	attachmenthandler.NewHandler()
}
