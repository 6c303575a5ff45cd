package service

import (
	"context"
	"testing"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/speech"

	"go.uber.org/zap"
)

type fakeSession struct {
	fed     [][]byte
	text    string
	aborted bool
}

func (f *fakeSession) Feed(chunk []byte) error { f.fed = append(f.fed, chunk); return nil }
func (f *fakeSession) Stop(ctx context.Context) (*speech.Result, error) {
	return &speech.Result{Text: f.text, Language: "en-US"}, nil
}
func (f *fakeSession) Abort() { f.aborted = true }

type fakeRecognizer struct {
	language string
	session  *fakeSession
}

func (f *fakeRecognizer) Start(ctx context.Context) (speech.Session, error) {
	return f.session, nil
}
func (f *fakeRecognizer) Language() string { return f.language }
func (f *fakeRecognizer) Ready() bool      { return true }

func newTestRecordingService(session *fakeSession) (RecordingService, *prefMockRepo) {
	prefRepo := newPrefMockRepo()
	prefSvc := NewPreferenceService(prefRepo, zap.NewNop())
	factory := func(language string) (speech.Recognizer, error) {
		if language == "" {
			language = "en-US"
		}
		return &fakeRecognizer{language: language, session: session}, nil
	}
	return NewRecordingService(factory, prefSvc, zap.NewNop()), prefRepo
}

func TestRecordingService_GetOrCreateIsStable(t *testing.T) {
	svc, _ := newTestRecordingService(&fakeSession{})
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "conn-1", 1, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.GetOrCreate(ctx, "conn-1", 1, nil)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if first != second {
		t.Error("same connection should reuse one controller")
	}

	other, _ := svc.GetOrCreate(ctx, "conn-2", 1, nil)
	if other == first {
		t.Error("different connections must not share controllers")
	}
}

func TestRecordingService_SeedsLanguageFromPreference(t *testing.T) {
	svc, prefRepo := newTestRecordingService(&fakeSession{})
	prefRepo.values["speech-language"] = "de-DE"

	ctrl, err := svc.GetOrCreate(context.Background(), "conn-1", 1, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if got := ctrl.Status().Language; got != "de-DE" {
		t.Errorf("expected controller seeded with de-DE, got %q", got)
	}
}

func TestRecordingService_RemoveAbortsSession(t *testing.T) {
	session := &fakeSession{}
	svc, _ := newTestRecordingService(session)
	ctx := context.Background()

	ctrl, _ := svc.GetOrCreate(ctx, "conn-1", 1, nil)
	if err := ctrl.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	svc.Remove("conn-1")
	if !session.aborted {
		t.Error("removing the connection should abort the in-flight session")
	}
	if _, ok := svc.Get("conn-1"); ok {
		t.Error("controller should be gone after remove")
	}
}

func TestRecordingService_ReapAbandoned(t *testing.T) {
	session := &fakeSession{}
	svc, _ := newTestRecordingService(session)
	ctx := context.Background()

	ctrl, _ := svc.GetOrCreate(ctx, "conn-1", 1, nil)
	if err := ctrl.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// 仍在喂音频窗口内，不应回收
	if n := svc.ReapAbandoned(time.Hour, time.Hour); n != 0 {
		t.Errorf("expected nothing reaped, got %d", n)
	}

	time.Sleep(5 * time.Millisecond)
	if n := svc.ReapAbandoned(time.Millisecond, time.Millisecond); n != 1 {
		t.Errorf("expected 1 reaped, got %d", n)
	}
	if ctrl.IsRecording() {
		t.Error("reaped controller should be idle")
	}
	if !session.aborted {
		t.Error("reaped session should be aborted")
	}
}

func TestRecordingService_StatusDTO(t *testing.T) {
	svc, _ := newTestRecordingService(&fakeSession{})
	ctrl, _ := svc.GetOrCreate(context.Background(), "conn-1", 1, nil)

	st := svc.StatusDTO(ctrl)
	if st.Recording {
		t.Error("fresh controller should be idle")
	}
	if !st.Ready {
		t.Error("fake recognizer should report ready")
	}
	if st.Language != "en-US" {
		t.Errorf("expected default language, got %q", st.Language)
	}
}
