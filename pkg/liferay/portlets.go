package liferay

import (
	"context"
	"net/http"
	"net/url"

	"liferayscan/pkg/utils"
)

// EnumeratePortlets 枚举已安装的 portlet
//
// 直接访问已安装 portlet 的 view.jsp 会因缺少渲染上下文返回 500，未安装时通常为 404。
func (s *Scanner) EnumeratePortlets(ctx context.Context, target string, portlets []string, opts EnumOptions) []string {
	portlets = utils.PrepareWordlist(portlets)
	installed := make([]bool, len(portlets))

	forEachCandidate(ctx, len(portlets), opts, func(i int) {
		resp := s.get(ctx, target, "html/portlet/"+url.PathEscape(portlets[i])+"/view.jsp")
		installed[i] = resp != nil && resp.StatusCode == http.StatusInternalServerError
	})

	var result []string
	for i, ok := range installed {
		if ok {
			result = append(result, portlets[i])
		}
	}
	return result
}
