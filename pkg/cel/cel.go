/*
  - Package cel
    @File: cel.go
    @Description: 基于 CEL 表达式的结果过滤器，用于 --match 参数
*/
package cel

import (
	"fmt"
	"strings"

	"liferayscan/pkg/types"

	"github.com/donnie4w/go-logger/logger"
	"github.com/google/cel-go/cel"
)

// Filter 编译后的过滤表达式，可被多个协程并发使用
type Filter struct {
	expression string
	program    cel.Program
}

// NewEnv 创建包含探测结果变量和自定义函数的CEL环境
func NewEnv() (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(VariableEnvOptions)+len(FunctionEnvOptions))
	opts = append(opts, VariableEnvOptions...)
	opts = append(opts, FunctionEnvOptions...)
	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("创建CEL环境失败: %w", err)
	}
	return env, nil
}

// NewFilter 编译过滤表达式，表达式的结果必须为 bool
func NewFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("过滤表达式不能为空")
	}

	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL编译错误: %w", issues.Err())
	}
	if ast.OutputType().String() != cel.BoolType.String() {
		return nil, fmt.Errorf("过滤表达式的结果必须为bool，实际为 %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL程序创建错误: %w", err)
	}

	logger.Debugf("结果过滤表达式: %s", expression)
	return &Filter{expression: expression, program: prg}, nil
}

// String 返回原始表达式
func (f *Filter) String() string {
	return f.expression
}

// Match 判断探测结果是否满足表达式，nil 过滤器匹配所有结果
func (f *Filter) Match(fp *types.Fingerprint) (bool, error) {
	if f == nil {
		return true, nil
	}
	if fp == nil {
		return false, nil
	}

	out, _, err := f.program.Eval(Variables(fp))
	if err != nil {
		return false, fmt.Errorf("CEL执行错误: %w", err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("过滤表达式返回了非bool结果: %v", out.Value())
	}
	return matched, nil
}
