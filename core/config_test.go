package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_allowedOrigins(t *testing.T) {
	t.Setenv("ENV", "test")

	tests := []struct {
		name string
		env  string
		want []string
	}{
		{name: "comma separated", env: "http://a.test,http://b.test", want: []string{"http://a.test", "http://b.test"}},
		{name: "comma and space", env: "http://a.test, http://b.test ,http://c.test", want: []string{"http://a.test", "http://b.test", "http://c.test"}},
		{name: "space separated", env: "http://a.test http://b.test", want: []string{"http://a.test", "http://b.test"}},
		{name: "single", env: "http://a.test", want: []string{"http://a.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_SERVER_ALLOWEDORIGINS", tt.env)
			conf := NewConfig()
			assert.Equal(t, tt.want, conf.Server.AllowedOrigins)
			assert.True(t, conf.TestMode)
		})
	}

	t.Run("default", func(t *testing.T) {
		assert.Equal(t, []string{"http://localhost:3000"}, NewConfig().Server.AllowedOrigins)
	})
}

func Test_splitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c ", ",", ""}))
	assert.Empty(t, splitList(nil))
}
