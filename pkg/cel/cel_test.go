package cel

import (
	"testing"

	"liferayscan/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFingerprint() *types.Fingerprint {
	return &types.Fingerprint{
		Target:               "http://portal.test/",
		IsLiferay:            true,
		Version:              "Liferay Community Edition Portal 7.3.5 CE GA6",
		SOAPAPIExposed:       true,
		PasswordResetEnabled: true,
		ServerVersion:        "Apache Tomcat/9.0.40",
		DiscoveredUsers: []types.User{
			{ScreenName: "test", DisplayName: "Test Test"},
		},
		InstalledPortlets: []string{"blogs"},
	}
}

func TestFilterMatch(t *testing.T) {
	fp := sampleFingerprint()
	tests := []struct {
		expr string
		want bool
	}{
		{`is_liferay`, true},
		{`is_liferay && soap_api`, true},
		{`json_api`, false},
		{`password_reset && !captcha`, true},
		{`version.icontains("7.3")`, true},
		{`server.startsWith("GlassFish")`, false},
		{`"Test Test" in users`, true},
		{`size(users) > 1`, false},
		{`"blogs" in portlets && size(technologies) == 0`, true},
		{`version.rmatches("Portal (?!6)\\d")`, true},
		{`version.rmatches("Portal (?=6)")`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := NewFilter(tt.expr)
			require.NoError(t, err)
			got, err := f.Match(fp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterRejectsInvalidExpressions(t *testing.T) {
	for _, expr := range []string{"", "   ", "version", "unknown_var", "is_liferay &&"} {
		_, err := NewFilter(expr)
		assert.Error(t, err, expr)
	}
}

func TestFilterInvalidRegexAtRuntime(t *testing.T) {
	f, err := NewFilter(`version.rmatches("(")`)
	require.NoError(t, err)

	_, err = f.Match(sampleFingerprint())
	assert.Error(t, err)
}

func TestNilFilterMatchesEverything(t *testing.T) {
	var f *Filter
	ok, err := f.Match(&types.Fingerprint{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEmptyListsAreUsable(t *testing.T) {
	f, err := NewFilter(`size(users) == 0 && !is_liferay`)
	require.NoError(t, err)

	ok, err := f.Match(&types.Fingerprint{Target: "http://x/"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFilterKeepsTrimmedExpression(t *testing.T) {
	f, err := NewFilter("  is_liferay  ")
	require.NoError(t, err)
	assert.Equal(t, "is_liferay", f.String())
}
