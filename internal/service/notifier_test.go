package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAsyncCodeDispatcherDoesNotBlockCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockCodeNotifier(ctrl)
	release := make(chan struct{})
	notifier.EXPECT().SendCode(gomock.Any(), "a@x.com", "00000042", CodeKindVerification).
		DoAndReturn(func(ctx context.Context, _, _ string, _ CodeKind) error {
			<-release
			return nil
		})

	d := NewAsyncCodeDispatcher(notifier, time.Second, discardLogger())
	reqCtx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	d.Dispatch(reqCtx, "a@x.com", "00000042", CodeKindVerification)
	cancel()
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("dispatch blocked the caller")
	}
	close(release)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := d.Wait(waitCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestAsyncCodeDispatcherLogsCodeOnFailure(t *testing.T) {
	cases := []struct {
		name string
		send func(context.Context, string, string, CodeKind) error
	}{
		{"error", func(context.Context, string, string, CodeKind) error { return errors.New("smtp refused") }},
		{"panic", func(context.Context, string, string, CodeKind) error { panic("boom") }},
		{"timeout", func(ctx context.Context, _ string, _ string, _ CodeKind) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := NewMockCodeNotifier(ctrl)
			notifier.EXPECT().SendCode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(tc.send)

			var out syncBuffer
			logger := slog.New(slog.NewJSONHandler(&out, nil))
			d := NewAsyncCodeDispatcher(notifier, 20*time.Millisecond, logger)
			d.Dispatch(context.Background(), "b@x.com", "12345678", CodeKindReset)

			waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := d.Wait(waitCtx); err != nil {
				t.Fatalf("wait: %v", err)
			}
			logged := out.String()
			if !strings.Contains(logged, `"level":"WARN"`) || !strings.Contains(logged, `"code":"12345678"`) {
				t.Fatalf("expected warn log with fallback code, got %s", logged)
			}
		})
	}
}

func TestAsyncCodeDispatcherLogsDeliveredCodeAtDebug(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockCodeNotifier(ctrl)
	notifier.EXPECT().SendCode(gomock.Any(), "e@x.com", "24681357", CodeKindVerification).Return(nil)

	var out syncBuffer
	logger := slog.New(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := NewAsyncCodeDispatcher(notifier, time.Second, logger)
	d.Dispatch(context.Background(), "e@x.com", "24681357", CodeKindVerification)

	waitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Wait(waitCtx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	logged := out.String()
	if !strings.Contains(logged, `"level":"DEBUG"`) || !strings.Contains(logged, `"code":"24681357"`) {
		t.Fatalf("expected debug log with delivered code, got %s", logged)
	}
	if strings.Contains(logged, `"level":"WARN"`) {
		t.Fatalf("unexpected warn on successful delivery: %s", logged)
	}
}

func TestLogCodeNotifierWritesCode(t *testing.T) {
	var out syncBuffer
	n := NewLogCodeNotifier(slog.New(slog.NewJSONHandler(&out, nil)))
	if err := n.SendCode(context.Background(), "c@x.com", "87654321", CodeKindVerification); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(out.String(), `"code":"87654321"`) || !strings.Contains(out.String(), `"kind":"verification"`) {
		t.Fatalf("unexpected log %s", out.String())
	}
}

func TestBuildCodeEmail(t *testing.T) {
	cases := []struct {
		kind    CodeKind
		subject string
		body    string
	}{
		{CodeKindVerification, "Verify your edumeet account", "verification code is: 11112222"},
		{CodeKindReset, "Your edumeet password reset code", "reset your password: 11112222"},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			e := buildCodeEmail("noreply@edumeet.test", "d@x.com", "11112222", tc.kind)
			if e.Subject != tc.subject {
				t.Fatalf("expected subject %q, got %q", tc.subject, e.Subject)
			}
			if !strings.Contains(string(e.Text), tc.body) {
				t.Fatalf("expected body to contain %q, got %q", tc.body, e.Text)
			}
			raw, err := e.Bytes()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			msg, err := mail.ReadMessage(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("parse rendered message: %v", err)
			}
			for header, want := range map[string]string{"To": "d@x.com", "From": "noreply@edumeet.test"} {
				addrs, err := msg.Header.AddressList(header)
				if err != nil || len(addrs) != 1 || addrs[0].Address != want {
					t.Fatalf("expected %s %s, got %v err=%v", header, want, addrs, err)
				}
			}
		})
	}
}
