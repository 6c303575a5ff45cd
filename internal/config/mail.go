package config

// MailConfig SMTP notification settings. Notifications go to the user's own
// registered address; disabled or addressless users are silently skipped.
// MailConfig SMTP 通知配置，收件人为用户注册邮箱。
type MailConfig struct {
	IsEnabled bool   `yaml:"is-enable" default:"false"` // 总开关
	Host      string `yaml:"host"`                      // SMTP 主机
	Port      int    `yaml:"port" default:"587"`        // SMTP 端口
	Username  string `yaml:"username"`                  // SMTP 用户名
	Password  string `yaml:"password"`                  // SMTP 密码
	From      string `yaml:"from"`                      // 发件人地址
}
