package liferay

import (
	"context"

	"liferayscan/pkg/network"
)

// ServerVersion 从 api/liferay 的错误页中获取应用服务器版本
func (s *Scanner) ServerVersion(ctx context.Context, target string) string {
	version, _ := s.firstMatch(ctx, target, variant{
		name: "error-page",
		path: PathAPILiferay,
		extract: func(resp *network.Response) (string, bool) {
			if tomcat, ok := TomcatVersion(resp.Body); ok {
				return tomcat, true
			}
			return GlassFishVersion(resp.Body)
		},
	})
	return version
}

// ClientIPAddress 从 api/liferay 的错误页中获取回显的客户端IP
func (s *Scanner) ClientIPAddress(ctx context.Context, target string) string {
	ip, _ := s.firstMatch(ctx, target, variant{
		name: "error-page",
		path: PathAPILiferay,
		extract: func(resp *network.Response) (string, bool) {
			return AccessDeniedAddress(resp.Body)
		},
	})
	return ip
}
