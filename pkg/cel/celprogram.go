/*
  - Package cel
    @File: celprogram.go
*/
package cel

import (
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// 已编译的正则缓存，同一表达式会对每个目标重复执行
var regexCache sync.Map

// FunctionEnvOptions 自定义函数，均在 Env 期绑定实现
var FunctionEnvOptions = []cel.EnvOption{
	// icontains: 忽略大小写的包含判断
	cel.Function("icontains",
		cel.MemberOverload("string_icontains_string",
			[]*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
			cel.BinaryBinding(func(lhs ref.Val, rhs ref.Val) ref.Val {
				v1, ok := lhs.(types.String)
				if !ok {
					return types.ValOrErr(lhs, "unexpected type '%v' passed to icontains", lhs.Type())
				}
				v2, ok := rhs.(types.String)
				if !ok {
					return types.ValOrErr(rhs, "unexpected type '%v' passed to icontains", rhs.Type())
				}
				return types.Bool(strings.Contains(strings.ToLower(string(v1)), strings.ToLower(string(v2))))
			}),
		),
	),
	// rmatches: 支持环视等语法的正则匹配
	cel.Function("rmatches",
		cel.MemberOverload("string_rmatches_string",
			[]*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
			cel.BinaryBinding(func(lhs ref.Val, rhs ref.Val) ref.Val {
				v1, ok := lhs.(types.String)
				if !ok {
					return types.ValOrErr(lhs, "unexpected type '%v' passed to rmatches", lhs.Type())
				}
				v2, ok := rhs.(types.String)
				if !ok {
					return types.ValOrErr(rhs, "unexpected type '%v' passed to rmatches", rhs.Type())
				}
				re, err := compileRegex(string(v2))
				if err != nil {
					return types.NewErr("invalid pattern to 'rmatches': %v", err)
				}
				isMatch, err := re.MatchString(string(v1))
				if err != nil {
					return types.NewErr("%v", err)
				}
				return types.Bool(isMatch)
			}),
		),
	),
}

func compileRegex(pattern string) (*regexp2.Regexp, error) {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	regexCache.Store(pattern, re)
	return re, nil
}
