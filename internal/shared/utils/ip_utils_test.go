package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ipv4", "192.168.1.57", "192.168.1.0"},
		{"ipv4 already zeroed", "10.0.0.0", "10.0.0.0"},
		{"ipv6 full", "2001:db8:85a3:8d3:1319:8a2e:370:7348", "2001:db8:85a3:8d3::"},
		{"ipv6 exactly four groups", "2001:db8:85a3:8d3", "2001:db8:85a3:8d3::"},
		{"empty", "", "0.0.0.0"},
		{"garbage passes through", "not-an-ip", "not-an-ip"},
		{"short ipv4 passes through", "192.168.1", "192.168.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnonymizeIP(tt.in))
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, IsPrivateIP("192.168.1.5"))
	assert.True(t, IsPrivateIP("10.1.2.3"))
	assert.True(t, IsPrivateIP("127.0.0.1"))
	assert.True(t, IsPrivateIP("::1"))
	assert.False(t, IsPrivateIP("8.8.8.8"))
	assert.False(t, IsPrivateIP("not-an-ip"))
}
