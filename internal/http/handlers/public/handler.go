package public

import "github.com/staylucky/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器仅用于访客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
