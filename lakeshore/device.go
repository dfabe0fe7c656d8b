package lakeshore

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/MBI-Div-B/lakeshore460/gpib"
)

// Model is the substring the *IDN? reply must contain.
const Model = "MODEL460"

var axes = []string{"X", "Y", "Z"}

// Device is an open session with a Model 460 gaussmeter.
//
// The bus supports one in-flight query, so every operation holds the
// device mutex for its full command exchange.
type Device struct {
	mx       sync.Mutex
	conn     gpib.Conn
	resource string
	identity string
}

// Open clears the instrument at addr, verifies it identifies as a
// Model 460, and sets all three channels to Tesla. Any failure here
// must abort startup; the device has no degraded state.
func Open(conn gpib.Conn, addr gpib.Address) (*Device, error) {
	d := &Device{conn: conn, resource: addr.Resource()}
	if err := conn.Clear(); err != nil {
		return nil, err
	}
	idn, err := conn.Query("*IDN?")
	if err != nil {
		return nil, err
	}
	if !strings.Contains(idn, Model) {
		return nil, errors.New("lakeshore: not a Model 460: " + strconv.Quote(idn))
	}
	d.identity = idn
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

// configure sets every channel to Tesla. Callers hold the mutex or run
// before the device is shared.
func (d *Device) configure() error {
	for _, ax := range axes {
		if err := d.conn.Send("CHNL " + ax); err != nil {
			return err
		}
		if err := d.conn.Send("UNIT T"); err != nil {
			return err
		}
	}
	return nil
}

// Resource returns the VISA resource string the device was opened with.
func (d *Device) Resource() string { return d.resource }

// Identity returns the *IDN? reply captured at open.
func (d *Device) Identity() string { return d.identity }

// Readings queries all three probe channels in a single exchange.
func (d *Device) Readings() (Reading, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	reply, err := d.conn.Query("ALLF?")
	if err != nil {
		return Reading{}, err
	}
	return parseReading(reply)
}

// Field selects one channel (X, Y, or Z) and measures it, returning
// the value in millitesla.
func (d *Device) Field(axis string) (float64, error) {
	axis = strings.ToUpper(axis)
	var ok bool
	for _, ax := range axes {
		if axis == ax {
			ok = true
		}
	}
	if !ok {
		return 0, errors.New("lakeshore: unknown axis " + strconv.Quote(axis))
	}

	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.conn.Send("CHNL " + axis); err != nil {
		return 0, err
	}
	prefix, err := d.conn.Query("FIELDM?")
	if err != nil {
		return 0, err
	}
	mult, ok := unitMult[strings.TrimSpace(prefix)]
	if !ok {
		return 0, &ParseError{Query: "FIELDM?", Reply: prefix}
	}
	raw, err := d.conn.Query("FIELD?")
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Query: "FIELD?", Reply: raw}
	}
	return 1e3 * mult * val, nil
}

// Reset clears the instrument, issues *RST, and reapplies the unit
// configuration.
func (d *Device) Reset() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if err := d.conn.Clear(); err != nil {
		return err
	}
	if err := d.conn.Send("*RST"); err != nil {
		return err
	}
	return d.configure()
}

// Close releases the instrument session.
func (d *Device) Close() error {
	return d.conn.Close()
}
