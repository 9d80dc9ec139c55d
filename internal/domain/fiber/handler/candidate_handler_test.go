package handler

import (
	"path/filepath"
	"testing"
)

func TestResumeSavePath(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"resume.pdf", filepath.Join(uploadDir, "resume.pdf")},
		{"../../etc/passwd", filepath.Join(uploadDir, "passwd")},
		{"/etc/passwd", filepath.Join(uploadDir, "passwd")},
		{"nested/dir/cv.docx", filepath.Join(uploadDir, "cv.docx")},
	}
	for _, tt := range tests {
		if got := resumeSavePath(tt.filename); got != tt.want {
			t.Errorf("resumeSavePath(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(1, 20, 0, 0)
	if p.From != 0 || p.To != 0 {
		t.Errorf("empty page: from %d to %d, want 0..0", p.From, p.To)
	}
	if p.TotalPages != 0 || p.HasMore {
		t.Errorf("empty page: total pages %d has_more %v", p.TotalPages, p.HasMore)
	}

	p = buildPagination(2, 10, 25, 10)
	if p.From != 11 || p.To != 20 {
		t.Errorf("middle page: from %d to %d, want 11..20", p.From, p.To)
	}
	if p.TotalPages != 3 || !p.HasMore {
		t.Errorf("middle page: total pages %d has_more %v", p.TotalPages, p.HasMore)
	}

	p = buildPagination(3, 10, 25, 5)
	if p.From != 21 || p.To != 25 {
		t.Errorf("last page: from %d to %d, want 21..25", p.From, p.To)
	}
	if p.HasMore {
		t.Error("last page must not report more")
	}
}
