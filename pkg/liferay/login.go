package liferay

import (
	"context"

	"liferayscan/pkg/network"
)

// Language 从 Set-Cookie 的 GUEST_LANGUAGE_ID 获取默认语言
func (s *Scanner) Language(ctx context.Context, target string) string {
	language, _ := s.firstMatch(ctx, target, variant{
		name: "root",
		path: PathRoot,
		extract: func(resp *network.Response) (string, bool) {
			return GuestLanguage(resp.HeaderValue("Set-Cookie"))
		},
	})
	return language
}

// OrganisationEmail 获取登录表单预填的组织邮箱域名
func (s *Scanner) OrganisationEmail(ctx context.Context, target string) string {
	domain, _ := s.firstMatch(ctx, target,
		variant{name: "legacy", path: PathLegacyLogin, extract: bodyMatch(LegacyLoginDomain)},
		variant{name: "modern", path: PathModernLogin, extract: bodyMatch(ModernLoginDomain)},
	)
	return domain
}

// UserRegistration 是否开放账号注册
func (s *Scanner) UserRegistration(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target,
		variant{name: "modern", path: PathModernCreateAccount, extract: bodyCheck(HasModernRegistrationForm)},
		variant{name: "legacy", path: PathLegacyCreateAccount, extract: bodyCheck(HasLegacyRegistrationForm)},
	)
	return ok
}

// SSOEnabled 登录页是否启用 SAML 单点登录
func (s *Scanner) SSOEnabled(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target, variant{name: "login", path: PathLogin, extract: bodyCheck(HasSSOForm)})
	return ok
}

// PasswordResetEnabled 是否开放找回密码
func (s *Scanner) PasswordResetEnabled(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target,
		variant{name: "modern", path: PathModernForgotPassword, extract: bodyCheck(HasForgotPassword)},
		variant{name: "legacy", path: PathLegacyForgotPassword, extract: bodyCheck(HasForgotPassword)},
	)
	return ok
}

// PasswordResetUsesCaptcha 找回密码是否需要验证码
func (s *Scanner) PasswordResetUsesCaptcha(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target,
		variant{name: "modern", path: PathModernForgotPassword, extract: bodyCheck(HasCaptcha)},
		variant{name: "legacy", path: PathLegacyForgotPassword, extract: bodyCheck(HasCaptcha)},
	)
	return ok
}

func bodyMatch(fn func(body string) (string, bool)) func(*network.Response) (string, bool) {
	return func(resp *network.Response) (string, bool) {
		return fn(resp.Body)
	}
}

func bodyCheck(fn func(body string) bool) func(*network.Response) (string, bool) {
	return check(func(resp *network.Response) bool {
		return fn(resp.Body)
	})
}
