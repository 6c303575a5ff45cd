package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    string
		wantErr bool
	}{
		{name: "empty passes through", tag: "", want: ""},
		{name: "simple tag", tag: "en", want: "en"},
		{name: "region tag", tag: "en-US", want: "en-US"},
		{name: "lowercase region canonicalized", tag: "en-us", want: "en-US"},
		{name: "chinese", tag: "zh-CN", want: "zh-CN"},
		{name: "garbage rejected", tag: "not a tag!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLanguage(tt.tag)
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRecognizer_DisabledWithoutEndpoint(t *testing.T) {
	rec, err := NewRecognizer(Config{Language: "en-US"}, zap.NewNop())
	assert.Nil(t, err)
	assert.False(t, rec.Ready())
	assert.Equal(t, "en-US", rec.Language())

	_, err = rec.Start(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewRecognizer_RejectsBadLanguage(t *testing.T) {
	_, err := NewRecognizer(Config{Endpoint: "http://localhost:1", Language: "!!"}, zap.NewNop())
	assert.NotNil(t, err)
}

func TestHTTPSession_Transcribe(t *testing.T) {
	var gotBody []byte
	var gotLanguage string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotLanguage = r.URL.Query().Get("language")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  went for a walk  ","duration":3.2}`))
	}))
	defer srv.Close()

	rec, err := NewRecognizer(Config{
		Endpoint: srv.URL,
		APIKey:   "secret",
		Language: "en-US",
		Timeout:  5 * time.Second,
	}, zap.NewNop())
	assert.Nil(t, err)
	assert.True(t, rec.Ready())

	sess, err := rec.Start(context.Background())
	assert.Nil(t, err)

	assert.Nil(t, sess.Feed([]byte("chunk-one|")))
	assert.Nil(t, sess.Feed([]byte("chunk-two")))

	result, err := sess.Stop(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, "  went for a walk  ", result.Text)
	// 提供方没回语言时沿用配置语言
	assert.Equal(t, "en-US", result.Language)
	assert.Equal(t, 3.2, result.Duration)

	assert.Equal(t, "chunk-one|chunk-two", string(gotBody))
	assert.Equal(t, "en-US", gotLanguage)
	assert.Equal(t, "Bearer secret", gotAuth)

	// 会话一次性
	_, err = sess.Stop(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, sess.Feed([]byte("late")), ErrSessionClosed)
}

func TestHTTPSession_EmptyAudioSkipsRequest(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer srv.Close()

	rec, _ := NewRecognizer(Config{Endpoint: srv.URL, Language: "en"}, zap.NewNop())
	sess, _ := rec.Start(context.Background())

	result, err := sess.Stop(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, "", result.Text)
	assert.False(t, requested)
}

func TestHTTPSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	rec, _ := NewRecognizer(Config{Endpoint: srv.URL}, zap.NewNop())
	sess, _ := rec.Start(context.Background())
	_ = sess.Feed([]byte("audio"))

	_, err := sess.Stop(context.Background())
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPSession_BufferLimit(t *testing.T) {
	rec, _ := NewRecognizer(Config{Endpoint: "http://localhost:1", MaxAudioBytes: 8}, zap.NewNop())
	sess, _ := rec.Start(context.Background())

	assert.Nil(t, sess.Feed([]byte("12345678")))
	assert.ErrorIs(t, sess.Feed([]byte("9")), ErrAudioTooLarge)
}

func TestHTTPSession_Abort(t *testing.T) {
	rec, _ := NewRecognizer(Config{Endpoint: "http://localhost:1"}, zap.NewNop())
	sess, _ := rec.Start(context.Background())

	assert.Nil(t, sess.Feed([]byte("audio")))
	sess.Abort()

	assert.ErrorIs(t, sess.Feed([]byte("more")), ErrSessionClosed)
	_, err := sess.Stop(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
