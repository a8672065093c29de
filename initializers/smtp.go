package initializers

import (
	"approval-flow-backend/config"
	"approval-flow-backend/lib/smtp"
)

func InitSmtp(cfg *config.Configuration) {
	err := smtp.Connect(cfg.Smtp.User, cfg.Smtp.Password,
		cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Sender, *cfg.Smtp.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
}
