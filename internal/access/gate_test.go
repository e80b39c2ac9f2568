package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	adminPaths  = []string{"/admin", "/admin/", "/admin/dashboard", "/admin/api/tours/4"}
	workerPaths = []string{"/worker", "/worker/dashboard", "/worker/api/testimonials"}
	publicPaths = []string{"/", "/tours", "/destinations/12", "/api/wishlist"}
)

func TestClassify(t *testing.T) {
	for _, p := range adminPaths {
		assert.Equal(t, ClassAdmin, Classify(p), p)
	}
	for _, p := range workerPaths {
		assert.Equal(t, ClassWorker, Classify(p), p)
	}
	for _, p := range publicPaths {
		assert.Equal(t, ClassPublic, Classify(p), p)
	}
}

func TestEvaluate(t *testing.T) {
	admin := Session{Status: StatusAuthenticated, Role: RoleAdmin}
	staff := Session{Status: StatusAuthenticated, Role: RoleStaff}

	tests := []struct {
		name    string
		paths   []string
		session Session
		want    Decision
	}{
		{"unauthenticated admin paths", adminPaths, Anonymous(), RedirectTo("/admin")},
		{"unauthenticated worker paths", workerPaths, Anonymous(), RedirectTo("/worker")},
		{"unauthenticated public paths", publicPaths, Anonymous(), Render()},
		{"staff on admin paths", adminPaths, staff, RedirectTo("/")},
		{"staff on worker paths", workerPaths, staff, Render()},
		{"admin on admin paths", adminPaths, admin, Render()},
		{"admin on worker paths", workerPaths, admin, RedirectTo("/")},
		{"admin on public paths", publicPaths, admin, Render()},
		{"authenticated without role", append(adminPaths, workerPaths...), Session{Status: StatusAuthenticated}, Render()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range tt.paths {
				assert.Equal(t, tt.want, Evaluate(p, tt.session), p)
			}
		})
	}
}

func TestEvaluateLoadingIsAlwaysPending(t *testing.T) {
	paths := append(append(append([]string{}, adminPaths...), workerPaths...), publicPaths...)
	for _, role := range []Role{RoleNone, RoleAdmin, RoleStaff} {
		for _, p := range paths {
			assert.Equal(t, Pending(), Evaluate(p, Session{Status: StatusLoading, Role: role}), p)
		}
	}
}

func TestGatedPublicPaths(t *testing.T) {
	g := NewGate("/account", " ", "/")

	assert.True(t, g.IsGatedPublic("/account/bookings"))
	assert.False(t, g.IsGatedPublic("/tours"))
	assert.False(t, g.IsGatedPublic("/admin/account"))

	assert.Equal(t, RedirectTo("/admin"), g.Evaluate("/account", Anonymous()))
	assert.Equal(t, Render(), g.Evaluate("/tours", Anonymous()))
	assert.Equal(t, Render(), g.Evaluate("/account", Session{Status: StatusAuthenticated, Role: RoleStaff}))

	assert.True(t, g.Guards("/account/x"))
	assert.True(t, g.Guards("/worker/dashboard"))
	assert.False(t, g.Guards("/"))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "redirect /admin", RedirectTo("/admin").String())
	assert.Equal(t, "render", Render().String())
}
