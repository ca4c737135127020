package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalGuards(t *testing.T) {
	admin := &Principal{Type: TypeAdmin, Role: "admin"}
	editor := &Principal{Type: TypeUser, Role: "Editor"}
	viewer := &Principal{Type: TypeUser, Role: "Viewer"}
	temp := &Principal{Type: TypeTemp}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CanEdit())
	assert.True(t, admin.CanView())

	assert.False(t, editor.IsAdmin())
	assert.True(t, editor.CanEdit())
	assert.True(t, editor.CanView())

	assert.False(t, viewer.IsAdmin())
	assert.False(t, viewer.CanEdit())
	assert.True(t, viewer.CanView())

	// The temp principal authorizes workspace selection only
	assert.False(t, temp.IsAdmin())
	assert.False(t, temp.CanEdit())
	assert.False(t, temp.CanView())
}
