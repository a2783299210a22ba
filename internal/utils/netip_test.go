package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"127.0.0.1/32", " ::1/128 ", "192.168.1.7", "10.0.0.0/8", "", "garbage"})
	assert.False(t, m.IsEmpty())

	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"192.168.1.7", true},
		{"192.168.1.8", false},
		{"10.20.30.40", true},
		{"::ffff:127.0.0.1", true},
		{"8.8.8.8", false},
		{"not-an-ip", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Allow(tt.ip), tt.ip)
	}
}

func TestIPMatcherEmpty(t *testing.T) {
	assert.True(t, NewIPMatcher(nil).IsEmpty())
	assert.True(t, NewIPMatcher([]string{" ", "nope"}).IsEmpty())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:51234"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "127.0.0.1", ClientIP(r, false))
	assert.Equal(t, "203.0.113.9", ClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", ClientIP(r, true))

	r.Header.Del("X-Real-IP")
	assert.Equal(t, "127.0.0.1", ClientIP(r, true))
}

func TestParseHostNoPort(t *testing.T) {
	assert.Equal(t, "::1", ParseHostNoPort("[::1]:80"))
	assert.Equal(t, "10.0.0.1", ParseHostNoPort("10.0.0.1"))
	assert.Equal(t, "", ParseHostNoPort(""))
}

func TestFirstForwardedFor(t *testing.T) {
	assert.Equal(t, "1.2.3.4", FirstForwardedFor(" 1.2.3.4 , 5.6.7.8"))
	assert.Equal(t, "", FirstForwardedFor("   "))
}
