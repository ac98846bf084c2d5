package validate

import (
	"errors"
	"strings"
	"testing"
)

type payload struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"full_name" validate:"required,max=5"`
	Avatar *string `json:"avatar_url" validate:"omitempty,link"`
}

func ptr(s string) *string { return &s }

func TestStruct(t *testing.T) {
	if err := Struct(payload{Email: "a@b.co", Name: "Ann", Avatar: ptr("/files/avatars/a.png")}); err != nil {
		t.Fatal(err)
	}

	err := Struct(payload{Email: "nope", Name: "Too long name", Avatar: ptr("ftp://x")})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"email must be a valid email", "full_name must be at most 5", "avatar_url must be"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%q missing from %q", want, err.Error())
		}
	}
}

func TestLink(t *testing.T) {
	cases := map[string]bool{
		"https://example.org/a.png": true,
		"http://x.io":               true,
		"/files/avatars/a.png":      true,
		"/files/../etc":             false,
		"javascript:alert(1)":       false,
		"example.org":               false,
	}
	for in, want := range cases {
		err := Struct(payload{Email: "a@b.co", Name: "A", Avatar: ptr(in)})
		if (err == nil) != want {
			t.Errorf("link %q: err = %v, want ok=%v", in, err, want)
		}
	}
}
