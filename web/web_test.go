package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAssets(t *testing.T) {
	for _, name := range []string{"index.html", "style.css", "login.js", "register.js", "ius-logo.png"} {
		data, err := fs.ReadFile(Public(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestDashboardEscapesUsername(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "dashboard.html", map[string]string{"Username": "<b>eve</b>"}))

	out := buf.String()
	assert.Contains(t, out, "<title>SE Lab Final - Dashboard</title>")
	assert.Contains(t, out, "Hello, &lt;b&gt;eve&lt;/b&gt;")
	assert.NotContains(t, out, "<b>eve</b>")
	assert.Contains(t, out, "/logout")
}
