package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidate_Accepts(t *testing.T) {
	cases := []any{
		SignupRequest{Username: "ann", Email: "ann@example.com", Password: "Secret123"},
		PasswordResetConfirm{NewPassword: "Secret123", ConfirmPassword: "Secret123"},
		EmailsRequest{Addresses: []string{"ann@example.com", "bob@example.com"}},
		CreateBookRequest{Title: "Dune", Author: "Frank Herbert"},
		PatchBookRequest{},
		PatchBookRequest{Title: ptr("Emma"), PageCount: ptr(0)},
		CreateReviewRequest{Rating: 5, ReviewText: "Great book"},
		TagRequest{Name: "scifi"},
	}
	for _, c := range cases {
		assert.NoError(t, Validate(c), "%#v", c)
	}
}

func TestValidate_ReportsFirstFailingField(t *testing.T) {
	cases := []struct {
		name string
		req  any
		want string
	}{
		{"missing username", SignupRequest{Email: "ann@example.com", Password: "Secret123"}, "field 'username' is required"},
		{"bad email", SignupRequest{Username: "ann", Email: "nope", Password: "Secret123"}, "field 'email' must be a valid email address"},
		{"short password", SignupRequest{Username: "ann", Email: "ann@example.com", Password: "123"}, "field 'password' must be at least 6 characters long"},
		{"passwords differ", PasswordResetConfirm{NewPassword: "Secret123", ConfirmPassword: "Other123"}, "field 'confirm_new_password' does not match"},
		{"no addresses", EmailsRequest{}, "field 'addresses' is required"},
		{"bad address", EmailsRequest{Addresses: []string{"ann@example.com", "nope"}}, "field 'addresses[1]' must be a valid email address"},
		{"negative pages", CreateBookRequest{Title: "Dune", Author: "Frank Herbert", PageCount: -1}, "field 'page_count' must be at least 0"},
		{"empty patched title", PatchBookRequest{Title: ptr("")}, "field 'title' must be at least 1 characters long"},
		{"rating too high", CreateReviewRequest{Rating: 6, ReviewText: "Too good"}, "field 'rating' must be at most 5"},
		{"long tag", TagRequest{Name: string(make([]byte, 65))}, "field 'name' must be at most 64 characters long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			require.Error(t, err)
			assert.EqualError(t, err, tc.want)
		})
	}
}
