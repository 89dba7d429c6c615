package liferay

import (
	"context"
	"net/http"

	"liferayscan/pkg/network"
)

// RemoteSoapAPI 是否允许远程访问 SOAP 接口
func (s *Scanner) RemoteSoapAPI(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target, variant{
		name: "axis",
		path: PathAPIAxis,
		extract: check(func(resp *network.Response) bool {
			return resp.StatusCode == http.StatusOK && HasSOAPServiceList(resp.Body)
		}),
	})
	return ok
}

// RemoteJSONAPI 是否允许远程访问 JSON 接口
func (s *Scanner) RemoteJSONAPI(ctx context.Context, target string) bool {
	_, ok := s.firstMatch(ctx, target, variant{
		name: "jsonws",
		path: PathAPIJSONWS,
		extract: check(func(resp *network.Response) bool {
			return resp.StatusCode == http.StatusOK && HasJSONWSMarker(resp.Body)
		}),
	})
	return ok
}
