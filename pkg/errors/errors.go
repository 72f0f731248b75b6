package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrStaleRequest 请求序号落后于已处理的最新序号
var ErrStaleRequest = errors.New("请求已过期，已有更新的请求")
