package gpib

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// Bridge is a Conn through a networked GPIB gateway speaking JSON
// frames over a websocket. Useful when the instrument hangs off a LAN
// bridge instead of a local port.
type Bridge struct {
	ws       *websocket.Conn
	resource string
	timeout  time.Duration
}

// A bridgeFrame is one message to or from the gateway. Requests carry
// exactly one of Open, Query, Send, or Clear; replies carry Data or an
// Error string.
type bridgeFrame struct {
	Open  string `json:"open,omitempty"`
	Query string `json:"q,omitempty"`
	Send  string `json:"w,omitempty"`
	Clear bool   `json:"clr,omitempty"`

	Data  string `json:"d,omitempty"`
	Error string `json:"error,omitempty"`
}

// DialBridge connects to the gateway at url and opens the instrument at
// addr by its VISA resource string. A non-zero timeout bounds every
// round trip on the bus.
func DialBridge(url string, addr Address, timeout time.Duration) (*Bridge, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, connErr(addr.Resource(), err)
	}
	b := &Bridge{ws: ws, resource: addr.Resource(), timeout: timeout}
	if _, err = b.roundTrip(bridgeFrame{Open: b.resource}); err != nil {
		ws.Close()
		return nil, err
	}
	return b, nil
}

func (b *Bridge) roundTrip(req bridgeFrame) (resp bridgeFrame, err error) {
	if b.timeout > 0 {
		b.ws.SetReadDeadline(time.Now().Add(b.timeout))
	}
	if err = b.ws.WriteJSON(req); err != nil {
		return resp, connErr(b.resource, err)
	}
	if err = b.ws.ReadJSON(&resp); err != nil {
		return resp, connErr(b.resource, err)
	}
	if resp.Error != "" {
		return resp, connErr(b.resource, errors.New(resp.Error))
	}
	return resp, nil
}

// Query sends cmd to the instrument and returns the gateway's reply.
func (b *Bridge) Query(cmd string) (string, error) {
	resp, err := b.roundTrip(bridgeFrame{Query: cmd})
	if err != nil {
		return "", err
	}
	return resp.Data, nil
}

// Send sends cmd without waiting for instrument data.
func (b *Bridge) Send(cmd string) error {
	_, err := b.roundTrip(bridgeFrame{Send: cmd})
	return err
}

// Clear asks the gateway to issue a device clear.
func (b *Bridge) Clear() error {
	_, err := b.roundTrip(bridgeFrame{Clear: true})
	return err
}

func (b *Bridge) Close() error {
	return b.ws.Close()
}

var _ Conn = &Bridge{}
