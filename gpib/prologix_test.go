package gpib

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePort struct {
	wr     bytes.Buffer
	rd     io.Reader
	closed bool
}

func (p *fakePort) Write(b []byte) (int, error) { return p.wr.Write(b) }

func (p *fakePort) Read(b []byte) (int, error) {
	if p.rd == nil {
		return 0, io.EOF
	}
	return p.rd.Read(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestNewPrologix(t *testing.T) {
	port := &fakePort{}
	p, err := NewPrologix(port, Address(12))
	assert.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "++mode 1\r\n++addr 12\r\n++auto 1\r\n++eoi 1\r\n", port.wr.String())
}

func TestPrologix_Query(t *testing.T) {
	port := &fakePort{rd: strings.NewReader("+285.5E-03\r\n")}
	p, err := NewPrologix(port, Address(12))
	assert.NoError(t, err)

	port.wr.Reset()
	resp, err := p.Query("FIELD?")
	assert.NoError(t, err)
	assert.Equal(t, "+285.5E-03", resp)
	assert.Equal(t, "FIELD?\r\n", port.wr.String())
}

func TestPrologix_Query_Dead(t *testing.T) {
	port := &fakePort{}
	p, err := NewPrologix(port, Address(12))
	assert.NoError(t, err)

	_, err = p.Query("FIELD?")
	assert.Error(t, err)

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.Equal(t, "GPIB::12::INSTR", connErr.Resource)
}

func TestPrologix_Clear(t *testing.T) {
	port := &fakePort{}
	p, err := NewPrologix(port, Address(4))
	assert.NoError(t, err)

	port.wr.Reset()
	assert.NoError(t, p.Clear())
	assert.Equal(t, "++clr\r\n", port.wr.String())
}

func TestPrologix_Close(t *testing.T) {
	port := &fakePort{}
	p, err := NewPrologix(port, Address(4))
	assert.NoError(t, err)

	assert.NoError(t, p.Close())
	assert.True(t, port.closed)
}
