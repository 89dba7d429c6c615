package types

import "time"

// User 发现的用户，ScreenName 为空表示仅知道姓名
type User struct {
	ScreenName  string `json:"screen_name,omitempty" msgpack:"screen_name,omitempty"`
	DisplayName string `json:"display_name" msgpack:"display_name"`
}

// Fingerprint 单个目标的探测结果，字符串字段为空表示未获取到
type Fingerprint struct {
	Target                      string        `json:"target" msgpack:"target"`
	IsLiferay                   bool          `json:"is_liferay" msgpack:"is_liferay"`
	Version                     string        `json:"version,omitempty" msgpack:"version,omitempty"`
	Language                    string        `json:"language,omitempty" msgpack:"language,omitempty"`
	OrganisationEmailDomain     string        `json:"organisation_email_domain,omitempty" msgpack:"organisation_email_domain,omitempty"`
	UserRegistrationEnabled     bool          `json:"user_registration_enabled" msgpack:"user_registration_enabled"`
	SSOEnabled                  bool          `json:"sso_enabled" msgpack:"sso_enabled"`
	SOAPAPIExposed              bool          `json:"soap_api_exposed" msgpack:"soap_api_exposed"`
	JSONAPIExposed              bool          `json:"json_api_exposed" msgpack:"json_api_exposed"`
	PasswordResetEnabled        bool          `json:"password_reset_enabled" msgpack:"password_reset_enabled"`
	PasswordResetCaptchaEnabled bool          `json:"password_reset_captcha_enabled" msgpack:"password_reset_captcha_enabled"`
	ServerVersion               string        `json:"server_version,omitempty" msgpack:"server_version,omitempty"`
	Server                      *ServerInfo   `json:"server,omitempty" msgpack:"server,omitempty"`
	ClientIPDisclosed           string        `json:"client_ip_disclosed,omitempty" msgpack:"client_ip_disclosed,omitempty"`
	DiscoveredUsers             []User        `json:"discovered_users,omitempty" msgpack:"discovered_users,omitempty"`
	InstalledPortlets           []string      `json:"installed_portlets,omitempty" msgpack:"installed_portlets,omitempty"`
	Title                       string        `json:"title,omitempty" msgpack:"title,omitempty"`
	FaviconHash                 string        `json:"favicon_hash,omitempty" msgpack:"favicon_hash,omitempty"`
	Technologies                []string      `json:"technologies,omitempty" msgpack:"technologies,omitempty"`
	Duration                    time.Duration `json:"duration" msgpack:"duration"`
}

// UserNames 返回所有用户的显示名
func (f *Fingerprint) UserNames() []string {
	names := make([]string, 0, len(f.DiscoveredUsers))
	for _, u := range f.DiscoveredUsers {
		names = append(names, u.DisplayName)
	}
	return names
}
