package speech

import "context"

// disabledRecognizer 未配置端点时的占位实现，拒绝开启会话
type disabledRecognizer struct {
	language string
}

func (r *disabledRecognizer) Start(ctx context.Context) (Session, error) {
	return nil, ErrNotConfigured
}

func (r *disabledRecognizer) Language() string {
	return r.language
}

func (r *disabledRecognizer) Ready() bool {
	return false
}

var _ Recognizer = (*disabledRecognizer)(nil)
