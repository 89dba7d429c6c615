package liferay

import (
	"context"

	"liferayscan/pkg/network"
)

// Version 获取 Liferay 版本，依次尝试根路径、home 响应头和 guest 首页
func (s *Scanner) Version(ctx context.Context, target string) string {
	version, _ := s.firstMatch(ctx, target,
		variant{name: "root", path: PathRoot, extract: versionFromRoot},
		variant{name: "home-header", path: PathHome, extract: versionFromHomeHeader},
		variant{name: "guest-home", path: PathGuestHome, extract: versionFromGuestHome},
	)
	return version
}

// VersionFromLogin 从根路径获取版本
func (s *Scanner) VersionFromLogin(ctx context.Context, target string) string {
	version, _ := s.firstMatch(ctx, target, variant{name: "root", path: PathRoot, extract: versionFromRoot})
	return version
}

// VersionFromGuestHome 从 web/guest/home 获取版本
func (s *Scanner) VersionFromGuestHome(ctx context.Context, target string) string {
	version, _ := s.firstMatch(ctx, target, variant{name: "guest-home", path: PathGuestHome, extract: versionFromGuestHome})
	return version
}

// versionFromRoot 响应头中带版本号时直接采用，否则才使用页面内容推断
func versionFromRoot(resp *network.Response) (string, bool) {
	if version, ok := VersionFromHeader(resp.HeaderValue(HeaderLiferayPortal)); ok {
		return version, true
	}
	return RichTextVersion(resp.Body)
}

// versionFromHomeHeader home 页面只采用响应头
func versionFromHomeHeader(resp *network.Response) (string, bool) {
	return VersionFromHeader(resp.HeaderValue(HeaderLiferayPortal))
}

func versionFromGuestHome(resp *network.Response) (string, bool) {
	if version, ok := VersionFromHeader(resp.HeaderValue(HeaderLiferayPortal)); ok {
		return version, true
	}
	return WelcomePostVersion(resp.Body)
}
