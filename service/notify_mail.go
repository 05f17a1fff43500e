package service

import (
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// NotifyQuotaChange mails the user a description of a quota event (missed
// day penalty, full wipe). Quota mutations are otherwise invisible side
// effects of time passing, so the notice goes out of band too when mail is
// configured. Failures are logged, never propagated: the ledger update
// already happened.
func NotifyQuotaChange(sendTo, subject, notice string) {
	if !viper.GetBool("mail.enabled") {
		return
	}

	from := viper.GetString("mail.from")
	if sendTo == from || sendTo == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", sendTo)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", notice)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.username"),
		viper.GetString("mail.password"),
	)

	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("Failed to send quota notice mail", zap.Error(err))
	}
}
