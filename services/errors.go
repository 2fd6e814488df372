// file: services/errors.go
package services

import "errors"

// 服务层错误分类，controller 据此映射响应码：
// NotFound 类 → 4004，校验类 → 1001，其余落库错误 → 5000
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrEmptyFlag         = errors.New("submitted flag must not be empty")
)
