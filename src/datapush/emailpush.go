// emailpush.go
package datapush

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/jordan-wright/email"

	"SurveyPulse/src/config"
)

// SendReport 把渲染好的分析报告发给配置的收件人
// attachmentPath为空或文件不存在时只发正文
func SendReport(c *config.Config, body string, attachmentPath string) error {
	from := c.SendEmail.Username
	password := c.SendEmail.Password

	if from == "" || len(c.SendEmail.To) == 0 {
		return fmt.Errorf("send_email is not configured")
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("SurveyPulse <%s>", from)
	e.To = c.SendEmail.To
	e.Subject = c.SendEmail.Subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err == nil {
			if _, err := e.AttachFile(attachmentPath); err != nil {
				return fmt.Errorf("attach report: %w", err)
			}
		}
	}

	// 确保服务器地址包含端口
	smtpAddr := c.SendEmail.Server
	if !strings.Contains(smtpAddr, ":") {
		smtpAddr += ":465" // 默认 SSL 端口
	}
	host := strings.Split(smtpAddr, ":")[0]

	err := e.SendWithTLS(
		smtpAddr,
		smtp.PlainAuth("", from, password, host),
		&tls.Config{ServerName: host},
	)
	if err != nil {
		return fmt.Errorf("send report mail via %s: %w", smtpAddr, err)
	}
	return nil
}
