package interfaces

import "errors"

// ErrDuplicateKey 唯一键冲突,由服务层翻译为具体业务错误
var ErrDuplicateKey = errors.New("duplicate key")
