package recording

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/speech"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSession struct {
	mu      sync.Mutex
	fed     [][]byte
	aborted bool
	result  *speech.Result
	stopErr error
	feedErr error
}

func (s *fakeSession) Feed(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feedErr != nil {
		return s.feedErr
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	s.fed = append(s.fed, buf)
	return nil
}

func (s *fakeSession) Stop(ctx context.Context) (*speech.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopErr != nil {
		return nil, s.stopErr
	}
	return s.result, nil
}

func (s *fakeSession) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aborted = true
}

type fakeRecognizer struct {
	language string
	ready    bool
	startErr error
	next     *fakeSession
	started  int
}

func (r *fakeRecognizer) Start(ctx context.Context) (speech.Session, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.started++
	return r.next, nil
}

func (r *fakeRecognizer) Language() string { return r.language }
func (r *fakeRecognizer) Ready() bool      { return r.ready }

type transcriptSink struct {
	mu    sync.Mutex
	texts []string
	langs []string
	err   error
}

func (ts *transcriptSink) handle(ctx context.Context, text string, language string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.err != nil {
		return ts.err
	}
	ts.texts = append(ts.texts, text)
	ts.langs = append(ts.langs, language)
	return nil
}

func newTestController(t *testing.T, rec *fakeRecognizer, sink *transcriptSink) *Controller {
	t.Helper()
	factory := func(language string) (speech.Recognizer, error) {
		rec.language = language
		return rec, nil
	}
	ctrl, err := NewController(factory, rec.language, sink.handle, zap.NewNop())
	require.NoError(t, err)
	return ctrl
}

func TestController_StartStopCreatesTranscript(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "  went for a run today  ", Language: "en-US"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	sink := &transcriptSink{}
	ctrl := newTestController(t, rec, sink)

	require.NoError(t, ctrl.Start(context.Background()))
	assert.True(t, ctrl.IsRecording())

	require.NoError(t, ctrl.Feed([]byte{1, 2, 3}))
	require.NoError(t, ctrl.Feed([]byte{4}))

	text, err := ctrl.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "went for a run today", text)
	assert.False(t, ctrl.IsRecording())

	require.Len(t, sink.texts, 1)
	assert.Equal(t, "went for a run today", sink.texts[0])
	assert.Equal(t, "en-US", sink.langs[0])
	assert.Len(t, sess.fed, 2)
}

func TestController_EmptyTranscriptIsSilent(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "   \n\t ", Language: "en-US"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	sink := &transcriptSink{}
	ctrl := newTestController(t, rec, sink)

	require.NoError(t, ctrl.Start(context.Background()))
	text, err := ctrl.Stop(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Empty(t, sink.texts)
	assert.False(t, ctrl.IsRecording())
	assert.Empty(t, ctrl.Status().LastError)
}

func TestController_StartGuards(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "hello"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	ctrl := newTestController(t, rec, &transcriptSink{})

	require.NoError(t, ctrl.Start(context.Background()))
	assert.ErrorIs(t, ctrl.Start(context.Background()), ErrAlreadyRecording)
	assert.Equal(t, 1, rec.started)

	// 停止后能力失效
	_, err := ctrl.Stop(context.Background())
	require.NoError(t, err)
	rec.ready = false
	assert.ErrorIs(t, ctrl.Start(context.Background()), ErrNotReady)
}

func TestController_StickyErrorBlocksStart(t *testing.T) {
	sess := &fakeSession{stopErr: errors.New("provider unreachable")}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	ctrl := newTestController(t, rec, &transcriptSink{})

	require.NoError(t, ctrl.Start(context.Background()))
	_, err := ctrl.Stop(context.Background())
	require.Error(t, err)
	assert.False(t, ctrl.IsRecording())

	st := ctrl.Status()
	assert.Equal(t, "provider unreachable", st.LastError)
	assert.False(t, st.Ready)

	assert.ErrorIs(t, ctrl.Start(context.Background()), ErrDisabledByError)

	ctrl.ClearError()
	sess.stopErr = nil
	sess.result = &speech.Result{Text: "recovered"}
	require.NoError(t, ctrl.Start(context.Background()))
}

func TestController_FeedErrorForcesIdle(t *testing.T) {
	sess := &fakeSession{feedErr: speech.ErrAudioTooLarge}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	ctrl := newTestController(t, rec, &transcriptSink{})

	require.NoError(t, ctrl.Start(context.Background()))
	err := ctrl.Feed([]byte{1})
	assert.ErrorIs(t, err, speech.ErrAudioTooLarge)
	assert.False(t, ctrl.IsRecording())
	assert.True(t, sess.aborted)
	assert.NotEmpty(t, ctrl.Status().LastError)
}

func TestController_FeedWithoutSession(t *testing.T) {
	rec := &fakeRecognizer{language: "en-US", ready: true}
	ctrl := newTestController(t, rec, &transcriptSink{})

	assert.ErrorIs(t, ctrl.Feed([]byte{1}), ErrNoActiveSession)
	_, err := ctrl.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestController_SetLanguageInvalidatesSession(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "stale"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	sink := &transcriptSink{}
	ctrl := newTestController(t, rec, sink)

	require.NoError(t, ctrl.Start(context.Background()))
	require.NoError(t, ctrl.SetLanguage("zh-CN"))

	assert.True(t, sess.aborted)
	assert.False(t, ctrl.IsRecording())
	assert.Equal(t, "zh-CN", ctrl.Status().Language)

	// 作废的会话不再产出转写
	_, err := ctrl.Stop(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Empty(t, sink.texts)
}

func TestController_SetLanguageClearsStickyError(t *testing.T) {
	sess := &fakeSession{stopErr: errors.New("boom")}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	ctrl := newTestController(t, rec, &transcriptSink{})

	require.NoError(t, ctrl.Start(context.Background()))
	_, err := ctrl.Stop(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, ctrl.Status().LastError)

	require.NoError(t, ctrl.SetLanguage("en-GB"))
	assert.Empty(t, ctrl.Status().LastError)

	sess.stopErr = nil
	sess.result = &speech.Result{Text: "ok"}
	require.NoError(t, ctrl.Start(context.Background()))
}

func TestController_TranscriptHandlerErrorNotSticky(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "save me"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	sink := &transcriptSink{err: errors.New("db down")}
	ctrl := newTestController(t, rec, sink)

	require.NoError(t, ctrl.Start(context.Background()))
	text, err := ctrl.Stop(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "save me", text)
	// 存储失败不禁用能力
	assert.Empty(t, ctrl.Status().LastError)
	require.NoError(t, ctrl.Start(context.Background()))
}

func TestController_ReapIfAbandoned(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "x"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	ctrl := newTestController(t, rec, &transcriptSink{})

	assert.False(t, ctrl.ReapIfAbandoned(time.Minute, time.Minute))

	require.NoError(t, ctrl.Start(context.Background()))
	assert.False(t, ctrl.ReapIfAbandoned(time.Hour, time.Hour))
	assert.True(t, ctrl.IsRecording())

	ctrl.mu.Lock()
	ctrl.startedAt = time.Now().Add(-2 * time.Hour)
	ctrl.lastChunkAt = time.Now().Add(-2 * time.Hour)
	ctrl.mu.Unlock()

	assert.True(t, ctrl.ReapIfAbandoned(time.Hour, 0))
	assert.False(t, ctrl.IsRecording())
	assert.True(t, sess.aborted)
}

func TestController_AbortDiscardsSession(t *testing.T) {
	sess := &fakeSession{result: &speech.Result{Text: "discarded"}}
	rec := &fakeRecognizer{language: "en-US", ready: true, next: sess}
	sink := &transcriptSink{}
	ctrl := newTestController(t, rec, sink)

	require.NoError(t, ctrl.Start(context.Background()))
	ctrl.Abort()
	assert.False(t, ctrl.IsRecording())
	assert.True(t, sess.aborted)
	assert.Empty(t, sink.texts)
}
