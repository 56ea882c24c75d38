// Package validation runs ordered, per-field rule lists and collects the
// failures into a single result keyed by field name.
//
// Rules for one field run in order and stop at the first failure, so each
// field reports its most specific problem only (an empty email is "blank",
// never also "taken").
package validation

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// 失败类型
const (
	KindBlank     = "blank"
	KindInvalid   = "invalid"
	KindTaken     = "taken"
	KindTooShort  = "too_short"
	KindTooLong   = "too_long"
	KindInclusion = "inclusion"
)

type Failure struct {
	Kind    string `json:"error"`
	Message string `json:"message"`
}

// Rule 返回 nil 表示通过；error 只用于规则本身无法执行（例如数据库查询失败）
type Rule func(ctx context.Context) (*Failure, error)

type Field struct {
	Name  string
	Rules []Rule
}

type Errors map[string][]Failure

func Run(ctx context.Context, fields ...Field) (Errors, error) {
	errs := Errors{}
	for _, field := range fields {
		for _, rule := range field.Rules {
			failure, err := rule(ctx)
			if err != nil {
				return nil, fmt.Errorf("validate %s: %w", field.Name, err)
			}
			if failure != nil {
				errs[field.Name] = append(errs[field.Name], *failure)
				break
			}
		}
	}
	return errs, nil
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

func (e Errors) Add(field, kind, message string) {
	e[field] = append(e[field], Failure{Kind: kind, Message: message})
}

// Messages 只保留面向用户的提示文字
func (e Errors) Messages() map[string][]string {
	res := make(map[string][]string, len(e))
	for field, failures := range e {
		for _, f := range failures {
			res[field] = append(res[field], f.Message)
		}
	}
	return res
}

func fail(kind, message string) (*Failure, error) {
	return &Failure{Kind: kind, Message: message}, nil
}

func Must(kind, message string, ok bool) Rule {
	return func(context.Context) (*Failure, error) {
		if !ok {
			return fail(kind, message)
		}
		return nil, nil
	}
}

func Present(present bool, message string) Rule {
	return Must(KindBlank, message, present)
}

func NotBlank(value, message string) Rule {
	return Must(KindBlank, message, strings.TrimSpace(value) != "")
}

func MinLength(value string, min int, message string) Rule {
	return Must(KindTooShort, message, utf8.RuneCountInString(value) >= min)
}

func MaxLength(value string, max int, message string) Rule {
	return Must(KindTooLong, message, utf8.RuneCountInString(value) <= max)
}

func OneOf(value string, options []string, message string) Rule {
	for _, option := range options {
		if value == option {
			return Must(KindInclusion, message, true)
		}
	}
	return Must(KindInclusion, message, false)
}

// Optional 在 value 为空时跳过 rule
func Optional(value string, rule Rule) Rule {
	return func(ctx context.Context) (*Failure, error) {
		if value == "" {
			return nil, nil
		}
		return rule(ctx)
	}
}

// Unique 在前面的规则都通过后才会查询
func Unique(message string, exists func(ctx context.Context) (bool, error)) Rule {
	return func(ctx context.Context) (*Failure, error) {
		found, err := exists(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			return fail(KindTaken, message)
		}
		return nil, nil
	}
}
