package gpib

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Prologix is a Conn through a Prologix-style USB GPIB controller
// attached to a local serial port.
type Prologix struct {
	rw       io.ReadWriteCloser
	scan     *bufio.Reader
	resource string
}

// NewPrologix puts the controller on rw into controller mode, addresses
// the instrument at addr, and enables read-after-write so every query
// is answered without an explicit ++read.
func NewPrologix(rw io.ReadWriteCloser, addr Address) (*Prologix, error) {
	p := &Prologix{
		rw:       rw,
		scan:     bufio.NewReader(rw),
		resource: addr.Resource(),
	}

	setup := []string{
		"++mode 1",
		"++addr " + strconv.Itoa(int(addr)),
		"++auto 1",
		"++eoi 1",
	}
	for _, cmd := range setup {
		if err := p.writeLine(cmd); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prologix) writeLine(cmd string) error {
	_, err := io.WriteString(p.rw, cmd+"\r\n")
	return connErr(p.resource, err)
}

func (p *Prologix) readLine() (string, error) {
	line, err := p.scan.ReadString('\n')
	if err != nil {
		return "", connErr(p.resource, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Query sends cmd to the addressed instrument and reads one reply line.
func (p *Prologix) Query(cmd string) (string, error) {
	if err := p.writeLine(cmd); err != nil {
		return "", err
	}
	return p.readLine()
}

// Send sends cmd without waiting for a reply.
func (p *Prologix) Send(cmd string) error {
	return p.writeLine(cmd)
}

// Clear sends the Selected Device Clear message to the instrument.
func (p *Prologix) Clear() error {
	return p.writeLine("++clr")
}

// Close closes the underlying serial port.
func (p *Prologix) Close() error {
	return p.rw.Close()
}

var _ Conn = &Prologix{}
