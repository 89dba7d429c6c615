package output

import (
	"fmt"
	"strings"

	"liferayscan/pkg/types"
)

// formatStringArray 将字符串数组格式化为字符串
func formatStringArray(arr []string) string {
	if len(arr) == 0 {
		return "-"
	}
	return fmt.Sprintf("[%s]", strings.Join(arr, "，"))
}

// orDash 空字符串显示为 -
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatUsers 用户显示为 屏幕名(姓名)，没有屏幕名时只显示姓名
func formatUsers(users []types.User) []string {
	list := make([]string, 0, len(users))
	for _, u := range users {
		list = append(list, formatUser(u))
	}
	return list
}

func formatUser(u types.User) string {
	if u.ScreenName == "" {
		return u.DisplayName
	}
	return fmt.Sprintf("%s (%s)", u.ScreenName, u.DisplayName)
}
