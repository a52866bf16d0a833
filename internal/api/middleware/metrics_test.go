package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/health/live", "/health/live"},
		{"/metrics", "/metrics"},
		{"/api/registrations", "/api/registrations"},
		{"/api/admin/registrations", "/api/admin/registrations"},
		{"/uploads/1756712345678-a1b2c3d4.jpg", "/uploads/{filename}"},
		{
			"/api/registrations/tournaments/spring-open-2026/register",
			"/api/registrations/tournaments/{id}/register",
		},
		{
			"/api/admin/registrations/3f1c9a2e-0000-0000-0000-000000000000/approve",
			"/api/admin/registrations/{id}/approve",
		},
		{
			"/api/admin/registrations/3f1c9a2e-0000-0000-0000-000000000000/reject",
			"/api/admin/registrations/{id}/reject",
		},
		{
			"/api/admin/registrations/3f1c9a2e-0000-0000-0000-000000000000",
			"/api/admin/registrations/{id}",
		},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.path); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, ожидается %q", tc.path, got, tc.want)
		}
	}
}
