package resume

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	key, err := Key("jg-job1", "jg-user1", "My Resume.PDF", now)
	if err != nil {
		t.Fatalf("Key() error: %v", err)
	}
	want := "resumes/resume_job_jg-job1_user_jg-user1_1772366400.pdf"
	if key != want {
		t.Errorf("Key() = %q, want %q", key, want)
	}
}

func TestKey_RejectsBadExtensions(t *testing.T) {
	now := time.Now()
	for _, name := range []string{"resume.exe", "resume", "resume.pdf.sh", "resume.txt"} {
		if _, err := Key("j", "u", name, now); !errors.Is(err, ErrBadExtension) {
			t.Errorf("Key(%q) = %v, want ErrBadExtension", name, err)
		}
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType("resumes/x.pdf"); got != "application/pdf" {
		t.Errorf("ContentType(.pdf) = %q", got)
	}
	if got := ContentType("resumes/x.bin"); got != "application/octet-stream" {
		t.Errorf("ContentType(.bin) = %q", got)
	}
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}
	ctx := context.Background()

	key := "resumes/resume_job_j1_user_u1_1.pdf"
	if err := ls.Save(ctx, key, strings.NewReader("%PDF-1.4 fake")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	rc, err := ls.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("content = %q", data)
	}

	if err := ls.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := ls.Open(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() after delete = %v, want ErrNotFound", err)
	}
	// Deleting again is fine.
	if err := ls.Delete(ctx, key); err != nil {
		t.Errorf("Delete() of missing key: %v", err)
	}
}

func TestLocalStorage_RelativeDir(t *testing.T) {
	// The default configuration uses "./resumes"; keys must resolve under a
	// non-clean relative root just like an absolute one.
	t.Chdir(t.TempDir())
	ls, err := NewLocalStorage("./resumes")
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}
	ctx := context.Background()

	key := "resumes/resume_job_j1_user_u1_1.pdf"
	if err := ls.Save(ctx, key, strings.NewReader("%PDF-1.4 fake")); err != nil {
		t.Fatalf("Save() with relative dir error: %v", err)
	}
	rc, err := ls.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open() with relative dir error: %v", err)
	}
	rc.Close()
	if err := ls.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() with relative dir error: %v", err)
	}

	if err := ls.Save(ctx, "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Error("Save() with traversal key should fail")
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage() error: %v", err)
	}

	if err := ls.Save(context.Background(), "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Error("Save() with traversal key should fail")
	}
	if _, err := ls.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Error("Open() with traversal key should fail")
	}
}

func TestStorageInterfaces(t *testing.T) {
	var _ Storage = (*LocalStorage)(nil)
	var _ Storage = (*S3Storage)(nil)
}
