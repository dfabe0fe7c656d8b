package gpib

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func newFakeGateway() *httptest.Server {
	var up websocket.Upgrader
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := up.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			var f bridgeFrame
			if ws.ReadJSON(&f) != nil {
				return
			}
			switch {
			case f.Open != "":
				if f.Open != "GPIB::12::INSTR" {
					ws.WriteJSON(bridgeFrame{Error: "no such resource"})
					continue
				}
				ws.WriteJSON(bridgeFrame{})
			case f.Query == "*IDN?":
				ws.WriteJSON(bridgeFrame{Data: "LSCI,MODEL460,0,032100"})
			case f.Query != "":
				ws.WriteJSON(bridgeFrame{Error: "instrument timeout"})
			default:
				ws.WriteJSON(bridgeFrame{})
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestBridge_Query(t *testing.T) {
	srv := newFakeGateway()
	defer srv.Close()

	b, err := DialBridge(wsURL(srv), Address(12), time.Second)
	assert.NoError(t, err)
	defer b.Close()

	resp, err := b.Query("*IDN?")
	assert.NoError(t, err)
	assert.Equal(t, "LSCI,MODEL460,0,032100", resp)

	_, err = b.Query("FIELD?")
	assert.Error(t, err)
	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.Equal(t, "GPIB::12::INSTR", connErr.Resource)
}

func TestBridge_SendClear(t *testing.T) {
	srv := newFakeGateway()
	defer srv.Close()

	b, err := DialBridge(wsURL(srv), Address(12), time.Second)
	assert.NoError(t, err)
	defer b.Close()

	assert.NoError(t, b.Send("UNIT T"))
	assert.NoError(t, b.Clear())
}

func TestDialBridge_UnknownResource(t *testing.T) {
	srv := newFakeGateway()
	defer srv.Close()

	_, err := DialBridge(wsURL(srv), Address(9), time.Second)
	assert.Error(t, err)
	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestDialBridge_NoGateway(t *testing.T) {
	srv := newFakeGateway()
	srv.Close()

	_, err := DialBridge(wsURL(srv), Address(12), time.Second)
	assert.Error(t, err)
	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
}
