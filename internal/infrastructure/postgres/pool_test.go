package postgres

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPv4Dialer_Lookup(t *testing.T) {
	ctx := context.Background()
	d := ipv4Dialer{}

	ip, err := d.lookup(ctx, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	_, err = d.lookup(ctx, "::1")
	assert.Error(t, err)
}

func TestIPv4Dialer_ConectaPorIPv4(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			_ = c.Close()
		}
	}()

	conn, err := ipv4Dialer{}.DialContext(context.Background(), "tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, ln.Addr().String(), conn.RemoteAddr().String())
}
