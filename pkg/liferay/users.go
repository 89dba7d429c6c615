package liferay

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"liferayscan/pkg/types"
	"liferayscan/pkg/utils"
)

// UsersFromSearch 从开放搜索结果中获取用户姓名，结果不包含屏幕名
func (s *Scanner) UsersFromSearch(ctx context.Context, target string) []types.User {
	resp := s.get(ctx, target, PathOpenSearch)
	if resp == nil || resp.Body == "" {
		return nil
	}

	var users []types.User
	for _, name := range OpenSearchNames(resp.Body) {
		users = append(users, types.User{DisplayName: name})
	}
	return users
}

// EnumerateUsersFromBlogRss 通过用户博客 RSS 验证候选屏幕名
//
//	@Description: 候选列表会被整理（去注释、空行、排序、去重），结果保持候选列表的顺序；
//	请求失败或非200响应直接跳过
func (s *Scanner) EnumerateUsersFromBlogRss(ctx context.Context, target string, candidates []string, opts EnumOptions) []types.User {
	candidates = utils.PrepareWordlist(candidates)
	found := make([]*types.User, len(candidates))

	forEachCandidate(ctx, len(candidates), opts, func(i int) {
		screenName := candidates[i]
		resp := s.get(ctx, target, blogRssPath(screenName))
		if resp == nil || resp.StatusCode != http.StatusOK {
			return
		}
		if fullName, ok := BlogSubtitle(resp.Body); ok {
			found[i] = &types.User{ScreenName: screenName, DisplayName: fullName}
		}
	})

	var users []types.User
	for _, u := range found {
		if u != nil {
			users = append(users, *u)
		}
	}
	return users
}

func blogRssPath(screenName string) string {
	return "web/" + url.PathEscape(screenName) + "/home/-/blogs/rss"
}

// MergeUsers 合并两种渠道发现的用户
//
//	@Description: RSS 结果在前并保持顺序；搜索结果仅在显示名（忽略大小写）尚未出现时追加
func MergeUsers(rss, search []types.User) []types.User {
	seen := make(map[string]struct{}, len(rss)+len(search))
	merged := make([]types.User, 0, len(rss)+len(search))

	for _, u := range rss {
		seen[userKey(u.DisplayName)] = struct{}{}
		merged = append(merged, u)
	}
	for _, u := range search {
		key := userKey(u.DisplayName)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, u)
	}
	return merged
}

func userKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
