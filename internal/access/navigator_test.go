package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	targets []string
}

func (r *recorder) navigate(target string) {
	r.targets = append(r.targets, target)
}

func TestNavigatorAppliesRedirectOncePerChange(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(nil, rec.navigate)

	for i := 0; i < 3; i++ {
		d := nav.Update("/admin/dashboard", Anonymous())
		assert.Equal(t, RedirectTo("/admin"), d)
	}
	assert.Equal(t, []string{"/admin"}, rec.targets)

	// a different pair navigates again
	nav.Update("/worker/dashboard", Anonymous())
	assert.Equal(t, []string{"/admin", "/worker"}, rec.targets)
}

func TestNavigatorSkipsSelfRedirect(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(nil, rec.navigate)

	d := nav.Update("/admin", Anonymous())
	assert.Equal(t, RedirectTo("/admin"), d)
	assert.Empty(t, rec.targets)
}

func TestNavigatorPendingThenResolved(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(nil, rec.navigate)

	assert.Equal(t, Pending(), nav.Update("/admin/dashboard", Loading()))
	assert.Empty(t, rec.targets)

	staff := Session{Status: StatusAuthenticated, Role: RoleStaff}
	assert.Equal(t, RedirectTo("/"), nav.Update("/admin/dashboard", staff))
	assert.Equal(t, []string{"/"}, rec.targets)

	current, ok := nav.Current()
	require.True(t, ok)
	assert.Equal(t, RedirectTo("/"), current)
}

func TestNavigatorDropsStaleTickets(t *testing.T) {
	rec := &recorder{}
	nav := NewNavigator(nil, rec.navigate)

	stale := nav.Begin("/worker/dashboard", Anonymous())
	fresh := nav.Begin("/worker/dashboard", Session{Status: StatusAuthenticated, Role: RoleStaff})

	assert.True(t, nav.Commit(fresh))
	assert.False(t, nav.Commit(stale))
	assert.Empty(t, rec.targets)

	current, _ := nav.Current()
	assert.Equal(t, Render(), current)
}
