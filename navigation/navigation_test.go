package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-viewer-session/navigation"
)

func TestTarget_String(t *testing.T) {
	require.Equal(t, "/viewer?StudyInstanceUIDs=S1", navigation.Viewer("S1").String())
	require.Equal(t, "/dashboard", navigation.To("/dashboard").String())
	require.True(t, navigation.Target{}.IsZero())
	require.False(t, navigation.Hard("http://localhost:3001").IsZero())
}

func TestLogin_Pending(t *testing.T) {
	target := navigation.Login("/reports?tab=2")
	require.Equal(t, navigation.RouteLogin, target.Path)
	require.True(t, target.Replace)
	require.Equal(t, "/reports?tab=2", target.Pending.Peek())

	require.Nil(t, navigation.Login("").Pending)
	require.Nil(t, navigation.Login(navigation.RouteLogin).Pending)
	require.Nil(t, navigation.Login(navigation.RouteLogout).Pending)
	require.Nil(t, navigation.Login("/login?next=x").Pending)
}

func TestPendingRedirect_ConsumedOnce(t *testing.T) {
	p := navigation.NewPendingRedirect("/reports")

	path, ok := p.Consume()
	require.True(t, ok)
	require.Equal(t, "/reports", path)

	_, ok = p.Consume()
	require.False(t, ok)
	require.Equal(t, "", p.Peek())

	var nilPending *navigation.PendingRedirect
	_, ok = nilPending.Consume()
	require.False(t, ok)
}
