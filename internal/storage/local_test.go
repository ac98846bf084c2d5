package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestValidName(t *testing.T) {
	cases := map[string]bool{
		"a.png":           true,
		"3f1c-ab_12.jpeg": true,
		"":                false,
		"../etc/passwd":   false,
		"a/b.png":         false,
		".hidden":         false,
		"a..b":            false,
		".upload-12345":   false,
	}
	cases[strings.Repeat("a", 129)] = false
	for name, want := range cases {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLocalRoundTrip(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p, err := s.Put(BucketAvatars, "me.png", strings.NewReader("img"))
	if err != nil {
		t.Fatal(err)
	}
	if p != "/files/avatars/me.png" {
		t.Fatalf("public path = %s", p)
	}
	b, err := s.ReadPublic(p)
	if err != nil || string(b) != "img" {
		t.Fatalf("read %q err=%v", b, err)
	}

	files, err := s.List(BucketAvatars)
	if err != nil || len(files) != 1 || files[0].Size != 3 {
		t.Fatalf("list = %+v err=%v", files, err)
	}

	if err := s.Delete(BucketAvatars, "me.png"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(BucketAvatars, "me.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := s.Delete(BucketAvatars, "me.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestLocalRejectsBadInput(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("secrets", "a.png", strings.NewReader("x")); !errors.Is(err, ErrUnknownBucket) {
		t.Fatalf("err = %v", err)
	}
	if _, err := s.Put(BucketAvatars, "../a.png", strings.NewReader("x")); !errors.Is(err, ErrBadName) {
		t.Fatalf("err = %v", err)
	}
	big := strings.NewReader(strings.Repeat("x", MaxObjectBytes+1))
	if _, err := s.Put(BucketScreenshots, "big.png", big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if files, _ := s.List(BucketScreenshots); len(files) != 0 {
		t.Fatalf("rejected upload left files behind: %+v", files)
	}
}

func TestParsePublicPath(t *testing.T) {
	cases := []struct {
		in           string
		bucket, name string
		ok           bool
	}{
		{"/files/avatars/a.png", "avatars", "a.png", true},
		{"https://cdn.example.org/files/screenshots/b.jpg", "screenshots", "b.jpg", true},
		{"/files/unknown/a.png", "", "", false},
		{"https://cdn.example.org/img/a.png", "", "", false},
		{"/files/avatars/../../x", "", "", false},
	}
	for _, c := range cases {
		b, n, ok := ParsePublicPath(c.in)
		if b != c.bucket || n != c.name || ok != c.ok {
			t.Errorf("ParsePublicPath(%q) = %q %q %v", c.in, b, n, ok)
		}
	}
}

func TestNewObjectName(t *testing.T) {
	if n := NewObjectName("Photo.PNG"); !strings.HasSuffix(n, ".png") || !ValidName(n) {
		t.Fatalf("name = %s", n)
	}
	if n := NewObjectName("script.sh"); strings.Contains(n, ".") {
		t.Fatalf("unexpected extension kept: %s", n)
	}
}
