// Package wayland implements the minimal slice of the Wayland wire protocol
// needed to own the clipboard selection via zwlr_data_control_v1. Speaking the
// protocol directly avoids shelling out to wl-copy, which is not universally
// installed.
package wayland

import (
	"encoding/binary"
	"fmt"
	"syscall"
)

var wire = binary.LittleEndian

// conn is a buffered connection to the compositor socket. Incoming file
// descriptors (SCM_RIGHTS) are queued and handed out with their messages.
type conn struct {
	fd        int
	readBuf   []byte
	queuedFds []int
}

func dial(sockPath string) (*conn, error) {
	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := syscall.Connect(fd, &syscall.SockaddrUnix{Name: sockPath}); err != nil {
		syscall.Close(fd) //nolint:errcheck
		return nil, err
	}
	return &conn{fd: fd}, nil
}

func (c *conn) close() {
	syscall.Close(c.fd) //nolint:errcheck
}

// request sends one Wayland request message.
func (c *conn) request(objectID uint32, opcode uint16, args []byte) error {
	size := uint16(8 + len(args))
	buf := make([]byte, size)
	wire.PutUint32(buf[0:], objectID)
	wire.PutUint32(buf[4:], uint32(opcode)|uint32(size)<<16)
	copy(buf[8:], args)
	_, err := syscall.Write(c.fd, buf)
	return err
}

// event reads the next complete event. fd is -1 unless the compositor passed
// a descriptor along with this message.
func (c *conn) event() (objectID uint32, opcode uint16, payload []byte, fd int, err error) {
	fd = -1
	for {
		if len(c.readBuf) >= 8 {
			sizeOpcode := wire.Uint32(c.readBuf[4:8])
			size := int(sizeOpcode >> 16)
			if size >= 8 && len(c.readBuf) >= size {
				objectID = wire.Uint32(c.readBuf[0:4])
				opcode = uint16(sizeOpcode & 0xffff)
				payload = make([]byte, size-8)
				copy(payload, c.readBuf[8:size])
				c.readBuf = c.readBuf[size:]
				if len(c.queuedFds) > 0 {
					fd = c.queuedFds[0]
					c.queuedFds = c.queuedFds[1:]
				}
				return
			}
		}

		buf := make([]byte, 4096)
		oob := make([]byte, syscall.CmsgSpace(4*8))
		n, oobn, _, _, recvErr := syscall.Recvmsg(c.fd, buf, oob, 0)
		if recvErr != nil {
			err = recvErr
			return
		}
		if n == 0 {
			err = fmt.Errorf("wayland: connection closed")
			return
		}
		c.readBuf = append(c.readBuf, buf[:n]...)

		if oobn > 0 {
			if scms, parseErr := syscall.ParseSocketControlMessage(oob[:oobn]); parseErr == nil {
				for _, scm := range scms {
					if rights, rightsErr := syscall.ParseUnixRights(&scm); rightsErr == nil {
						c.queuedFds = append(c.queuedFds, rights...)
					}
				}
			}
		}
	}
}

func uint32Arg(v uint32) []byte {
	b := make([]byte, 4)
	wire.PutUint32(b, v)
	return b
}

// stringArg encodes a Wayland string: uint32 length (including the null
// terminator), bytes, padded to 4-byte alignment.
func stringArg(s string) []byte {
	raw := append([]byte(s), 0)
	padded := (len(raw) + 3) &^ 3
	buf := make([]byte, 4+padded)
	wire.PutUint32(buf[0:], uint32(len(raw)))
	copy(buf[4:], raw)
	return buf
}

func args(parts ...[]byte) []byte {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// readString decodes a Wayland string from payload bytes, returning the rest.
func readString(data []byte) (string, []byte, error) {
	if len(data) < 4 {
		return "", data, fmt.Errorf("wayland: short string length field")
	}
	length := int(wire.Uint32(data[:4]))
	data = data[4:]
	if length == 0 {
		return "", data, nil
	}
	padded := (length + 3) &^ 3
	if len(data) < padded {
		return "", data, fmt.Errorf("wayland: short string data")
	}
	s := string(data[:length-1])
	return s, data[padded:], nil
}
