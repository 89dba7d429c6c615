package liferay

import (
	"context"
	"net/http"

	"liferayscan/pkg/network"
)

// DetectLiferay 登录跳转或首页特征任一命中即判定为 Liferay，登录探测命中时不再请求首页
func (s *Scanner) DetectLiferay(ctx context.Context, target string) bool {
	if s.DetectFromLogin(ctx, target) {
		return true
	}
	return s.DetectFromHome(ctx, target)
}

// DetectFromLogin 通过 c/portal/login 的 302 跳转判断
func (s *Scanner) DetectFromLogin(ctx context.Context, target string) bool {
	resp := s.get(ctx, target, PathLogin)
	return resp != nil && isLoginRedirect(resp)
}

// DetectFromHome 通过首页的响应头或 JS 特征判断
func (s *Scanner) DetectFromHome(ctx context.Context, target string) bool {
	resp := s.get(ctx, target, PathHome)
	return resp != nil && isLiferayHome(resp)
}

func isLoginRedirect(resp *network.Response) bool {
	if resp.StatusCode != http.StatusFound {
		return false
	}
	if HasLiferayPortalHeader(resp.HeaderValue(HeaderLiferayPortal)) {
		return true
	}
	location := resp.HeaderValue("Location")
	return IsLegacyLoginLocation(location) || IsModernLoginLocation(location)
}

func isLiferayHome(resp *network.Response) bool {
	if resp.StatusCode != http.StatusOK {
		return false
	}
	return HasLiferayPortalHeader(resp.HeaderValue(HeaderLiferayPortal)) || HasLiferayScriptMarker(resp.Body)
}
